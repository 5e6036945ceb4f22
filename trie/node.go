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

// Package trie implements a hexary Merkle Patricia trie, just enough of it to
// build tries over hashed keys and to verify the proofs such tries produce.
// It deliberately does not implement general-purpose trie storage.
package trie

import (
	"fmt"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
)

// EmptyRoot is the known root hash of an empty trie: keccak256(rlp("")).
var EmptyRoot = common.HexToHash("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421")

type node interface{}

type (
	// fullNode is a branch with 16 children indexed by nibble plus a value
	// slot at index 16.
	fullNode struct {
		Children [17]node
	}
	// shortNode is an extension or leaf; Key is in hex-nibble encoding and
	// carries the terminator nibble when it leads to a value.
	shortNode struct {
		Key []byte
		Val node
	}
	hashNode  []byte
	valueNode []byte
)

// encodeNode returns the canonical RLP encoding of n with children collapsed
// to their references.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *shortNode:
		var payload []byte
		payload = rlp.AppendString(payload, hexToCompact(n.Key))
		payload = appendRef(payload, n.Val)
		return rlp.WrapList(payload)
	case *fullNode:
		var payload []byte
		for i := 0; i < 16; i++ {
			payload = appendRef(payload, n.Children[i])
		}
		if v, ok := n.Children[16].(valueNode); ok && len(v) > 0 {
			payload = rlp.AppendString(payload, v)
		} else {
			payload = append(payload, rlp.EmptyString)
		}
		return rlp.WrapList(payload)
	default:
		panic(fmt.Sprintf("%T: invalid node for encoding: %v", n, n))
	}
}

// appendRef appends the reference of a child node: nodes whose encoding is
// shorter than a hash are embedded in place, larger ones are replaced by the
// keccak of their encoding.
func appendRef(payload []byte, n node) []byte {
	switch n := n.(type) {
	case nil:
		return append(payload, rlp.EmptyString)
	case valueNode:
		return rlp.AppendString(payload, n)
	case hashNode:
		return rlp.AppendString(payload, n)
	default:
		enc := encodeNode(n)
		if len(enc) < common.HashLength {
			return append(payload, enc...)
		}
		return rlp.AppendString(payload, crypto.Keccak256(enc))
	}
}
