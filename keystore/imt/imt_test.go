// Copyright 2026 The axiom-keystore-modules Authors
// This file is part of the axiom-keystore-modules library.
//
// The axiom-keystore-modules library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The axiom-keystore-modules library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the axiom-keystore-modules library. If not, see <http://www.gnu.org/licenses/>.

package imt

import (
	"fmt"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

func hashOf(s string) common.Hash { return crypto.Keccak256Hash([]byte(s)) }

func TestReconstructRootEmptyProof(t *testing.T) {
	leaf := hashOf("leaf")
	require.Equal(t, leaf, ReconstructRoot(nil, leaf, nil))
	require.Equal(t, leaf, ReconstructRoot(nil, leaf, uint256.NewInt(0)))
}

func TestReconstructRootBitOrientation(t *testing.T) {
	// pathBits = 0b00001 with a 5-element proof: sibling 0 hashes on the
	// left, siblings 1 through 4 on the right.
	leaf := hashOf("leaf")
	siblings := make([]common.Hash, 5)
	for i := range siblings {
		siblings[i] = hashOf(fmt.Sprintf("sibling-%d", i))
	}
	want := crypto.Keccak256Hash(siblings[0][:], leaf[:])
	for i := 1; i < 5; i++ {
		want = crypto.Keccak256Hash(want[:], siblings[i][:])
	}
	require.Equal(t, want, ReconstructRoot(siblings, leaf, uint256.NewInt(0b00001)))

	// Flipping any single path bit must change the result.
	for bit := 0; bit < 5; bit++ {
		flipped := uint256.NewInt(0b00001 ^ (1 << bit))
		require.NotEqual(t, want, ReconstructRoot(siblings, leaf, flipped), "bit %d", bit)
	}
}

func TestTreeInclusionRoundTrip(t *testing.T) {
	tree := NewTree()
	vk := hashOf("verifier-code")
	type reg struct{ addr, dataHash common.Hash }
	var regs []reg
	for i := 0; i < 9; i++ {
		r := reg{addr: hashOf(fmt.Sprintf("account-%d", i)), dataHash: hashOf(fmt.Sprintf("keydata-%d", i))}
		regs = append(regs, r)
		tree.Insert(r.addr, r.dataHash, vk)
	}
	root := tree.Root()
	for _, r := range regs {
		proof, err := tree.ProveInclusion(r.addr, vk)
		require.NoError(t, err)
		got, err := DeriveRoot(proof, r.dataHash, r.addr)
		require.NoError(t, err)
		require.Equal(t, root, got, "addr %s", r.addr)
	}

	// Wrong data hash reduces to a different (meaningless) root, never an
	// accidental match.
	proof, err := tree.ProveInclusion(regs[0].addr, vk)
	require.NoError(t, err)
	got, err := DeriveRoot(proof, hashOf("other data"), regs[0].addr)
	require.NoError(t, err)
	require.NotEqual(t, root, got)
}

func TestTreeInclusionUnknownKey(t *testing.T) {
	tree := NewTree()
	tree.Insert(hashOf("a"), hashOf("d"), hashOf("vk"))
	_, err := tree.ProveInclusion(hashOf("absent"), hashOf("vk"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestTreeExclusionRoundTrip(t *testing.T) {
	tree := NewTree()
	vk := hashOf("verifier-code")
	for i := 0; i < 7; i++ {
		tree.Insert(hashOf(fmt.Sprintf("account-%d", i)), hashOf(fmt.Sprintf("keydata-%d", i)), vk)
	}
	root := tree.Root()

	for i := 0; i < 20; i++ {
		salt := hashOf(fmt.Sprintf("salt-%d", i))
		dataHash := hashOf(fmt.Sprintf("counterfactual-%d", i))
		addr := DeriveKeystoreAddress(salt, dataHash, vk)

		proof, err := tree.ProveExclusion(salt, dataHash, vk)
		require.NoError(t, err)
		got, err := DeriveRoot(proof, dataHash, addr)
		require.NoError(t, err)
		require.Equal(t, root, got, "salt-%d", i)
	}
}

func TestTreeExclusionOnEmptyTree(t *testing.T) {
	tree := NewTree()
	salt, dataHash, vk := hashOf("s"), hashOf("d"), hashOf("vk")
	addr := DeriveKeystoreAddress(salt, dataHash, vk)
	proof, err := tree.ProveExclusion(salt, dataHash, vk)
	require.NoError(t, err)

	extra, err := DecodeExclusionExtra(proof.ExclusionExtraData)
	require.NoError(t, err)
	require.Equal(t, DummyMarker, extra.PrevMarker)
	require.Equal(t, DummyMarker, proof.NextMarker)

	got, err := DeriveRoot(proof, dataHash, addr)
	require.NoError(t, err)
	require.Equal(t, tree.Root(), got)
}

func TestTreeExclusionOfPresentKey(t *testing.T) {
	tree := NewTree()
	salt, dataHash, vk := hashOf("s"), hashOf("d"), hashOf("vk")
	addr := DeriveKeystoreAddress(salt, dataHash, vk)
	tree.Insert(addr, dataHash, vk)
	_, err := tree.ProveExclusion(salt, dataHash, vk)
	require.ErrorIs(t, err, ErrKeyExists)
}

func TestExclusionOrderingRejected(t *testing.T) {
	salt, dataHash, vk := hashOf("s"), hashOf("d"), hashOf("vk")
	addr := DeriveKeystoreAddress(salt, dataHash, vk)
	key := SiloedKey(addr)

	var low, high common.Hash // below and above any keccak output
	for i := range high {
		high[i] = 0xFF
	}

	cases := []struct {
		name string
		prev common.Hash
		next common.Hash
	}{
		{"gap entirely above the key", high, high},
		{"gap entirely below the key", low, low},
		{"prev equal to key", key, high},
		{"next equal to key", low, key},
		{"inverted gap", high, low},
	}
	for _, tc := range cases {
		proof := &KeyProof{
			IsExclusion: true,
			ExclusionExtraData: EncodeExclusionExtra(&ExclusionExtra{
				PrevMarker: ActiveMarker,
				PrevKey:    tc.prev,
				Salt:       salt,
				ValueHash:  hashOf("v"),
			}),
			NextMarker:      ActiveMarker,
			NextKey:         tc.next,
			VerifierKeyHash: vk,
		}
		_, err := DeriveRoot(proof, dataHash, addr)
		require.ErrorIs(t, err, ErrNotAnExclusionProof, tc.name)
	}
}

func TestExclusionDummyMarkersRelaxOrdering(t *testing.T) {
	salt, dataHash, vk := hashOf("s"), hashOf("d"), hashOf("vk")
	addr := DeriveKeystoreAddress(salt, dataHash, vk)

	var high common.Hash
	for i := range high {
		high[i] = 0xFF
	}

	// Bounds on the wrong sides of the key, but both marked dummy: a dummy
	// marker means "no bound on this side", so ordering is not enforced.
	proof := &KeyProof{
		IsExclusion: true,
		ExclusionExtraData: EncodeExclusionExtra(&ExclusionExtra{
			PrevMarker: DummyMarker,
			PrevKey:    high,
			Salt:       salt,
			ValueHash:  hashOf("v"),
		}),
		NextMarker:      DummyMarker,
		NextKey:         common.Hash{},
		VerifierKeyHash: vk,
	}
	_, err := DeriveRoot(proof, dataHash, addr)
	require.NoError(t, err)
}

func TestExclusionAddressBinding(t *testing.T) {
	tree := NewTree()
	vk := hashOf("verifier-code")
	tree.Insert(hashOf("account-0"), hashOf("keydata-0"), vk)

	salt, dataHash := hashOf("salt"), hashOf("counterfactual")
	addr := DeriveKeystoreAddress(salt, dataHash, vk)
	proof, err := tree.ProveExclusion(salt, dataHash, vk)
	require.NoError(t, err)

	// Tampering with the salt changes the derived address.
	extra, err := DecodeExclusionExtra(proof.ExclusionExtraData)
	require.NoError(t, err)
	extra.Salt[0] ^= 0x01
	tampered := *proof
	tampered.ExclusionExtraData = EncodeExclusionExtra(extra)
	_, err = DeriveRoot(&tampered, dataHash, addr)
	require.ErrorIs(t, err, ErrInvalidKeystoreAddress)

	// So does a different data hash or verifier key hash.
	_, err = DeriveRoot(proof, hashOf("other data"), addr)
	require.ErrorIs(t, err, ErrInvalidKeystoreAddress)
	tampered = *proof
	tampered.VerifierKeyHash = hashOf("other verifier")
	_, err = DeriveRoot(&tampered, dataHash, addr)
	require.ErrorIs(t, err, ErrInvalidKeystoreAddress)

	// And an unrelated registered address is rejected outright.
	_, err = DeriveRoot(proof, dataHash, hashOf("unrelated account"))
	require.ErrorIs(t, err, ErrInvalidKeystoreAddress)
}

func TestDecodeExclusionExtraBounds(t *testing.T) {
	_, err := DecodeExclusionExtra(nil)
	require.ErrorIs(t, err, ErrMalformedExtraData)
	_, err = DecodeExclusionExtra(make([]byte, ExclusionExtraDataLength-1))
	require.ErrorIs(t, err, ErrMalformedExtraData)
	_, err = DecodeExclusionExtra(make([]byte, ExclusionExtraDataLength+1))
	require.ErrorIs(t, err, ErrMalformedExtraData)

	extra := &ExclusionExtra{
		PrevMarker: ActiveMarker,
		PrevKey:    hashOf("prev"),
		Salt:       hashOf("salt"),
		ValueHash:  hashOf("value"),
	}
	decoded, err := DecodeExclusionExtra(EncodeExclusionExtra(extra))
	require.NoError(t, err)
	require.Equal(t, extra, decoded)
}

func TestInsertOverwritesValueHash(t *testing.T) {
	tree := NewTree()
	vk := hashOf("vk")
	addr := hashOf("account")
	tree.Insert(addr, hashOf("old data"), vk)
	oldRoot := tree.Root()
	tree.Insert(addr, hashOf("new data"), vk)
	require.Equal(t, tree.Size(), 2)
	require.NotEqual(t, oldRoot, tree.Root())

	proof, err := tree.ProveInclusion(addr, vk)
	require.NoError(t, err)
	got, err := DeriveRoot(proof, hashOf("new data"), addr)
	require.NoError(t, err)
	require.Equal(t, tree.Root(), got)
}
