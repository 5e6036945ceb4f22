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

package trie

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

// testEntries builds n deterministic key/value pairs with hashed keys, the
// same shape secure tries are used with.
func testEntries(n int) map[string][]byte {
	entries := make(map[string][]byte, n)
	for i := 0; i < n; i++ {
		key := crypto.Keccak256([]byte(fmt.Sprintf("key-%d", i)))
		val := crypto.Keccak256([]byte(fmt.Sprintf("val-%d", i)))[:8+i%24]
		entries[string(key)] = val
	}
	return entries
}

func TestEmptyTrieHash(t *testing.T) {
	require.Equal(t, EmptyRoot, New().Hash())
}

func TestUpdateGet(t *testing.T) {
	tr := New()
	entries := testEntries(64)
	for k, v := range entries {
		tr.Update([]byte(k), v)
	}
	for k, v := range entries {
		require.Equal(t, v, tr.Get([]byte(k)))
	}
	require.Nil(t, tr.Get(crypto.Keccak256([]byte("no-such-key"))))
}

func TestHashInsertionOrderIndependent(t *testing.T) {
	entries := testEntries(32)
	a, b := New(), New()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	for _, k := range keys {
		a.Update([]byte(k), entries[k])
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b.Update([]byte(keys[i]), entries[keys[i]])
	}
	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, EmptyRoot, a.Hash())
}

func TestProveAndVerify(t *testing.T) {
	tr := New()
	entries := testEntries(128)
	for k, v := range entries {
		tr.Update([]byte(k), v)
	}
	root := tr.Hash()
	for k, v := range entries {
		proof := tr.Prove([]byte(k))
		require.NotEmpty(t, proof)
		got, err := VerifyProof(root, []byte(k), proof)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestProveSingleEntry(t *testing.T) {
	tr := New()
	key := crypto.Keccak256([]byte("only"))
	tr.Update(key, []byte{0xBE, 0xEF})
	got, err := VerifyProof(tr.Hash(), key, tr.Prove(key))
	require.NoError(t, err)
	require.Equal(t, []byte{0xBE, 0xEF}, got)
}

func TestVerifyAbsence(t *testing.T) {
	tr := New()
	for k, v := range testEntries(64) {
		tr.Update([]byte(k), v)
	}
	root := tr.Hash()
	missing := crypto.Keccak256([]byte("missing"))
	proof := tr.Prove(missing)
	got, err := VerifyProof(root, missing, proof)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestVerifyRejectsTamperedNode(t *testing.T) {
	tr := New()
	entries := testEntries(64)
	var key []byte
	for k, v := range entries {
		tr.Update([]byte(k), v)
		key = []byte(k)
	}
	root := tr.Hash()
	proof := tr.Prove(key)
	require.NotEmpty(t, proof)

	// Flip a byte in the last node: its hash no longer matches the
	// reference held by its parent.
	tampered := make([][]byte, len(proof))
	for i, p := range proof {
		tampered[i] = append([]byte{}, p...)
	}
	last := tampered[len(tampered)-1]
	last[len(last)-1] ^= 0x01
	_, err := VerifyProof(root, key, tampered)
	require.Error(t, err)
}

func TestVerifyRejectsWrongRoot(t *testing.T) {
	tr := New()
	entries := testEntries(16)
	var key []byte
	for k, v := range entries {
		tr.Update([]byte(k), v)
		key = []byte(k)
	}
	proof := tr.Prove(key)
	badRoot := crypto.Keccak256Hash([]byte("unrelated root"))
	_, err := VerifyProof(badRoot, key, proof)
	require.Error(t, err)
}

func TestVerifyRejectsReorderedProof(t *testing.T) {
	tr := New()
	entries := testEntries(256)
	var key []byte
	for k, v := range entries {
		tr.Update([]byte(k), v)
		key = []byte(k)
	}
	root := tr.Hash()
	proof := tr.Prove(key)
	if len(proof) < 2 {
		t.Skip("need at least two proof nodes")
	}
	swapped := make([][]byte, len(proof))
	copy(swapped, proof)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	_, err := VerifyProof(root, key, swapped)
	require.Error(t, err)
}

func TestKeyEncodingRoundTrip(t *testing.T) {
	for _, key := range [][]byte{
		{},
		{0x01},
		{0x12, 0x34},
		crypto.Keccak256([]byte("x")),
	} {
		hex := keybytesToHex(key)
		require.True(t, hasTerm(hex))
		require.Equal(t, hex, compactToHex(hexToCompact(hex)))
		// extension-style key without terminator
		ext := hex[:len(hex)-1]
		if len(ext) > 0 {
			require.Equal(t, ext, compactToHex(hexToCompact(ext)))
		}
	}
}
