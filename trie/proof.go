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
	"fmt"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
)

// VerifyProof walks the given proof nodes against root, following key (in
// KEYBYTES encoding). It returns the raw value stored at key, or nil if the
// proof is a well-formed proof of absence. Any structural defect - missing
// nodes, out-of-order nodes, unused nodes, bad RLP - is an error.
func VerifyProof(root common.Hash, key []byte, proof [][]byte) ([]byte, error) {
	nodes, used, err := proofMap(proof)
	if err != nil {
		return nil, fmt.Errorf("could not construct proof map: %w", err)
	}
	return verifyProof(root, key, nodes, used)
}

type rawProofElement struct {
	index int
	value []byte
}

// proofMap creates a map from hash to proof node.
func proofMap(proof [][]byte) (map[common.Hash]node, map[common.Hash]rawProofElement, error) {
	res := map[common.Hash]node{}
	raw := map[common.Hash]rawProofElement{}
	for i, proofB := range proof {
		hash := crypto.Keccak256Hash(proofB)
		var err error
		res[hash], err = decodeNode(proofB)
		if err != nil {
			return nil, nil, err
		}
		raw[hash] = rawProofElement{index: i, value: proofB}
	}
	return res, raw, nil
}

func verifyProof(root common.Hash, key []byte, proofs map[common.Hash]node, used map[common.Hash]rawProofElement) ([]byte, error) {
	nextIndex := 0
	key = keybytesToHex(key)
	var n node = hashNode(root[:])
	for {
		switch nt := n.(type) {
		case *fullNode:
			if len(key) == 0 {
				return nil, fmt.Errorf("full nodes should not have values")
			}
			n, key = nt.Children[key[0]], key[1:]
			if n == nil {
				return nil, nil
			}
		case *shortNode:
			shortHex := nt.Key
			if len(shortHex) > len(key) {
				return nil, fmt.Errorf("len(shortHex)=%d must be leq len(key)=%d", len(shortHex), len(key))
			}
			if !bytes.Equal(shortHex, key[:len(shortHex)]) {
				return nil, nil
			}
			n, key = nt.Val, key[len(shortHex):]
		case hashNode:
			var ok bool
			h := common.BytesToHash(nt)
			n, ok = proofs[h]
			if !ok {
				return nil, fmt.Errorf("missing hash %x", nt)
			}
			raw, ok := used[h]
			if !ok {
				return nil, fmt.Errorf("missing hash %x", nt)
			}
			if nextIndex != raw.index {
				return nil, fmt.Errorf("proof elements present but not in expected order, expected %d at index %d", raw.index, nextIndex)
			}
			nextIndex++
			delete(used, h)
		case valueNode:
			if len(key) != 0 {
				return nil, fmt.Errorf("value node should have zero length remaining in key %x", key)
			}
			for hash, raw := range used {
				return nil, fmt.Errorf("not all proof elements were used hash=%x index=%d value=%x", hash, raw.index, raw.value)
			}
			return common.CopyBytes(nt), nil
		default:
			return nil, fmt.Errorf("unexpected type: %T", n)
		}
	}
}

func decodeRef(buf []byte) (node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case kind == rlp.List:
		if len(buf)-len(rest) >= common.HashLength {
			return nil, nil, fmt.Errorf("embedded nodes must be less than hash size")
		}
		n, err := decodeNode(buf[:len(buf)-len(rest)])
		if err != nil {
			return nil, nil, err
		}
		return n, rest, nil
	case kind == rlp.String && len(val) == 0:
		return nil, rest, nil
	case kind == rlp.String && len(val) == 32:
		return hashNode(val), rest, nil
	default:
		return nil, nil, fmt.Errorf("invalid RLP string size %d (want 0 through 32)", len(val))
	}
}

func decodeFull(elems []byte) (*fullNode, error) {
	n := &fullNode{}
	for i := 0; i < 16; i++ {
		var err error
		n.Children[i], elems, err = decodeRef(elems)
		if err != nil {
			return nil, err
		}
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(val)
	}
	return n, nil
}

func decodeShort(elems []byte) (*shortNode, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	key := compactToHex(kbuf)
	if hasTerm(key) {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: key, Val: valueNode(val)}, nil
	}
	val, _, err := decodeRef(rest)
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: val}, nil
}

func decodeNode(encoded []byte) (node, error) {
	if len(encoded) == 0 {
		return nil, fmt.Errorf("nodes must not be zero length")
	}
	elems, _, err := rlp.SplitList(encoded)
	if err != nil {
		return nil, err
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("invalid number of list elements: %v", c)
	}
}
