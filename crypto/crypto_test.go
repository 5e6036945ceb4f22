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

package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

func TestKeccak256KnownVectors(t *testing.T) {
	require.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256Hash(nil))
	require.Equal(t,
		common.HexToHash("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45"),
		Keccak256Hash([]byte("abc")))
	// keccak256(rlp("")) == the well-known empty trie root.
	require.Equal(t,
		common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"),
		Keccak256Hash([]byte{0x80}))
}

func TestKeccak256Concatenation(t *testing.T) {
	// Hashing split input must equal hashing the concatenation.
	a, b := []byte("hello "), []byte("keystore")
	require.Equal(t, Keccak256(append(common.CopyBytes(a), b...)), Keccak256(a, b))
	require.Equal(t, common.BytesToHash(Keccak256(a, b)), Keccak256Hash(a, b))
}
