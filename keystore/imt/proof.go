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
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

var (
	// ErrInvalidKeystoreAddress is returned when an exclusion proof's salt,
	// data hash and verifier key hash do not derive the keystore address the
	// caller registered.
	ErrInvalidKeystoreAddress = errors.New("imt: derived keystore address does not match")
	// ErrNotAnExclusionProof is returned when the proven key does not fall
	// inside the gap an exclusion proof claims.
	ErrNotAnExclusionProof = errors.New("imt: key not inside claimed exclusion gap")
	// ErrMalformedExtraData is returned when exclusion extra data does not
	// have the exact packed wire length.
	ErrMalformedExtraData = errors.New("imt: malformed exclusion extra data")
)

// ExclusionExtraDataLength is the packed wire size of ExclusionExtra:
// prevMarker(1) + prevKey(32) + salt(32) + valueHash(32).
const ExclusionExtraDataLength = 97

// KeyProof carries everything needed to reduce a piece of key data to the
// keystore tree root it claims, for both inclusion and exclusion.
type KeyProof struct {
	IsExclusion        bool
	ExclusionExtraData []byte
	NextMarker         byte
	NextKey            common.Hash
	VerifierKeyHash    common.Hash
	KeyData            []byte
	Proof              []common.Hash
	PathBits           *uint256.Int
}

// ExclusionExtra is the structured form of the packed exclusion extra data.
type ExclusionExtra struct {
	PrevMarker byte
	PrevKey    common.Hash
	Salt       common.Hash
	ValueHash  common.Hash
}

// DecodeExclusionExtra parses the packed exclusion extra data. The byte
// layout is a wire contract: fixed offsets 0, 1, 33, 65 and nothing else.
// Truncated or oversized input fails loudly.
func DecodeExclusionExtra(data []byte) (*ExclusionExtra, error) {
	if len(data) != ExclusionExtraDataLength {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrMalformedExtraData, len(data), ExclusionExtraDataLength)
	}
	extra := &ExclusionExtra{PrevMarker: data[0]}
	extra.PrevKey.SetBytes(data[1:33])
	extra.Salt.SetBytes(data[33:65])
	extra.ValueHash.SetBytes(data[65:97])
	return extra, nil
}

// EncodeExclusionExtra packs the structured form back into its wire layout.
func EncodeExclusionExtra(extra *ExclusionExtra) []byte {
	data := make([]byte, ExclusionExtraDataLength)
	data[0] = extra.PrevMarker
	copy(data[1:33], extra.PrevKey[:])
	copy(data[33:65], extra.Salt[:])
	copy(data[65:97], extra.ValueHash[:])
	return data
}

// DeriveRoot reduces a key proof to the tree root it claims.
//
// For an inclusion proof the leaf commits to the caller's key data under the
// siloed keystore address. For an exclusion proof the leaf is the predecessor
// leaf whose gap brackets the (absent) siloed key; the proof must also derive
// the caller's keystore address from its salt, preventing substitution of an
// unrelated exclusion proof.
//
// The returned root is a claim. It carries no authority until it is resolved
// against the state cache.
func DeriveRoot(p *KeyProof, dataHash, keystoreAddress common.Hash) (common.Hash, error) {
	var leaf common.Hash
	if p.IsExclusion {
		extra, err := DecodeExclusionExtra(p.ExclusionExtraData)
		if err != nil {
			return common.Hash{}, err
		}
		derived := DeriveKeystoreAddress(extra.Salt, dataHash, p.VerifierKeyHash)
		if derived != keystoreAddress {
			return common.Hash{}, fmt.Errorf("%w: derived %s, registered %s",
				ErrInvalidKeystoreAddress, derived, keystoreAddress)
		}
		key := SiloedKey(derived)
		if !(key.Cmp(extra.PrevKey) > 0 || extra.PrevMarker == DummyMarker) {
			return common.Hash{}, fmt.Errorf("%w: key %s not above prev %s",
				ErrNotAnExclusionProof, key, extra.PrevKey)
		}
		if !(key.Cmp(p.NextKey) < 0 || p.NextMarker == DummyMarker) {
			return common.Hash{}, fmt.Errorf("%w: key %s not below next %s",
				ErrNotAnExclusionProof, key, p.NextKey)
		}
		leaf = LeafHash(extra.PrevMarker, extra.PrevKey, p.NextMarker, p.NextKey, extra.ValueHash)
	} else {
		valueHash := ValueHash(dataHash, p.VerifierKeyHash)
		key := SiloedKey(keystoreAddress)
		leaf = LeafHash(ActiveMarker, key, p.NextMarker, p.NextKey, valueHash)
	}
	return ReconstructRoot(p.Proof, leaf, p.PathBits), nil
}
