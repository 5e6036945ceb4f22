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
	"bytes"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

// Trie is an in-memory Merkle Patricia trie. It exists to build the prover
// side of storage proofs: insert values, compute the root, and extract the
// node path for any key. Callers are expected to pre-hash keys when secure
// (hashed-key) semantics are wanted.
type Trie struct {
	root node
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Update associates key with value in the trie. A zero-length value is
// treated as a no-op: the trie cannot attest absence, so empty slots are
// simply never inserted.
func (t *Trie) Update(key, value []byte) {
	if len(value) == 0 {
		return
	}
	hex := keybytesToHex(key)
	t.root = t.insert(t.root, hex, valueNode(common.CopyBytes(value)))
}

// Get returns the value stored under key, or nil if the key is absent.
func (t *Trie) Get(key []byte) []byte {
	hex := keybytesToHex(key)
	n := t.root
	for {
		switch nt := n.(type) {
		case nil:
			return nil
		case *shortNode:
			if len(hex) < len(nt.Key) || !bytes.Equal(nt.Key, hex[:len(nt.Key)]) {
				return nil
			}
			n, hex = nt.Val, hex[len(nt.Key):]
		case *fullNode:
			n, hex = nt.Children[hex[0]], hex[1:]
		case valueNode:
			return common.CopyBytes(nt)
		default:
			return nil
		}
	}
}

// Hash returns the root hash of the trie.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRoot
	}
	return crypto.Keccak256Hash(encodeNode(t.root))
}

// Prove constructs a Merkle proof for key: the ordered list of encoded trie
// nodes on the path from the root towards the key. Nodes embedded in their
// parent are not listed separately, matching the reference encoding used by
// eth_getProof.
func (t *Trie) Prove(key []byte) [][]byte {
	hex := keybytesToHex(key)
	var proof [][]byte
	n := t.root
	first := true
	for {
		switch nt := n.(type) {
		case nil:
			return proof
		case *shortNode:
			proof = appendProofNode(proof, nt, first)
			first = false
			if len(hex) < len(nt.Key) || !bytes.Equal(nt.Key, hex[:len(nt.Key)]) {
				// The trie doesn't contain the key; the collected prefix
				// path proves that.
				return proof
			}
			n, hex = nt.Val, hex[len(nt.Key):]
		case *fullNode:
			proof = appendProofNode(proof, nt, first)
			first = false
			n, hex = nt.Children[hex[0]], hex[1:]
		case valueNode:
			return proof
		default:
			return proof
		}
	}
}

func appendProofNode(proof [][]byte, n node, isRoot bool) [][]byte {
	enc := encodeNode(n)
	// Embedded nodes travel inside their parent's encoding; only hashed
	// references become standalone proof elements. The root is always listed.
	if isRoot || len(enc) >= common.HashLength {
		proof = append(proof, enc)
	}
	return proof
}

func (t *Trie) insert(n node, key []byte, value node) node {
	if len(key) == 0 {
		return value
	}
	switch n := n.(type) {
	case nil:
		return &shortNode{Key: key, Val: value}
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		// If the whole key matches, keep this short node as is and only
		// update the subtrie.
		if matchlen == len(n.Key) {
			return &shortNode{Key: n.Key, Val: t.insert(n.Val, key[matchlen:], value)}
		}
		// Otherwise branch out at the index where they differ.
		branch := &fullNode{}
		branch.Children[n.Key[matchlen]] = t.insert(nil, n.Key[matchlen+1:], n.Val)
		branch.Children[key[matchlen]] = t.insert(nil, key[matchlen+1:], value)
		if matchlen == 0 {
			return branch
		}
		return &shortNode{Key: key[:matchlen], Val: branch}
	case *fullNode:
		cpy := *n
		cpy.Children[key[0]] = t.insert(n.Children[key[0]], key[1:], value)
		return &cpy
	default:
		// Replacing an existing value: len(key) == 0 is handled above, so a
		// valueNode here means two keys of different lengths, which hashed
		// keys rule out.
		panic("trie: inserting into a value node")
	}
}
