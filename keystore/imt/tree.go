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
	"sort"

	"github.com/holiman/uint256"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

var (
	// ErrKeyNotFound is returned when proving inclusion of a key the tree
	// does not hold.
	ErrKeyNotFound = errors.New("imt: key not found in tree")
	// ErrKeyExists is returned when proving exclusion of a key the tree
	// does hold.
	ErrKeyExists = errors.New("imt: key exists in tree")
)

type treeEntry struct {
	key       common.Hash // siloed key, the tree's sort order
	valueHash common.Hash
}

// Tree is the prover side of the keystore tree: an append-only ordered set of
// (siloed key, valueHash) leaves preceded by a dummy head leaf covering the
// low edge of the key space. It produces the KeyProofs that DeriveRoot
// consumes, and doubles as the fixture generator for tests.
type Tree struct {
	entries []treeEntry // sorted by key
}

// NewTree creates a tree holding only the dummy head leaf.
func NewTree() *Tree {
	return &Tree{}
}

// Insert records key data for a keystore address. Re-inserting an address
// overwrites its value hash; the tree never shrinks.
func (t *Tree) Insert(keystoreAddress, dataHash, verifierKeyHash common.Hash) {
	key := SiloedKey(keystoreAddress)
	valueHash := ValueHash(dataHash, verifierKeyHash)
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].key.Cmp(key) >= 0
	})
	if i < len(t.entries) && t.entries[i].key == key {
		t.entries[i].valueHash = valueHash
		return
	}
	t.entries = append(t.entries, treeEntry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = treeEntry{key: key, valueHash: valueHash}
}

// Root computes the current tree root.
func (t *Tree) Root() common.Hash {
	leaves := t.leafHashes()
	root, _ := foldTree(leaves, 0)
	return root
}

// Size returns the number of leaves including the dummy head.
func (t *Tree) Size() int { return len(t.entries) + 1 }

// ProveInclusion produces the inclusion proof for the key data registered
// under keystoreAddress.
func (t *Tree) ProveInclusion(keystoreAddress, verifierKeyHash common.Hash) (*KeyProof, error) {
	key := SiloedKey(keystoreAddress)
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].key.Cmp(key) >= 0
	})
	if i >= len(t.entries) || t.entries[i].key != key {
		return nil, ErrKeyNotFound
	}
	leafIndex := i + 1 // the dummy head occupies index 0
	nextMarker, nextKey := t.next(i)
	_, siblings := foldTree(t.leafHashes(), leafIndex)
	return &KeyProof{
		NextMarker:      nextMarker,
		NextKey:         nextKey,
		VerifierKeyHash: verifierKeyHash,
		Proof:           siblings,
		PathBits:        uint256.NewInt(uint64(leafIndex)),
	}, nil
}

// ProveExclusion produces the exclusion proof showing that the counterfactual
// keystore address derived from (salt, dataHash, verifierKeyHash) has no key
// data in the tree.
func (t *Tree) ProveExclusion(salt, dataHash, verifierKeyHash common.Hash) (*KeyProof, error) {
	addr := DeriveKeystoreAddress(salt, dataHash, verifierKeyHash)
	key := SiloedKey(addr)
	// Index of the first entry at or above key; its predecessor leaf owns
	// the gap the key falls into.
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].key.Cmp(key) >= 0
	})
	if i < len(t.entries) && t.entries[i].key == key {
		return nil, ErrKeyExists
	}
	var (
		leafIndex  int
		prevMarker byte
		prevKey    common.Hash
		valueHash  common.Hash
	)
	if i == 0 {
		// No predecessor: the dummy head leaf brackets the low edge.
		leafIndex = 0
		prevMarker = DummyMarker
	} else {
		leafIndex = i // entry i-1 sits at leaf index i
		prevMarker = ActiveMarker
		prevKey = t.entries[i-1].key
		valueHash = t.entries[i-1].valueHash
	}
	nextMarker, nextKey := t.next(i - 1)
	_, siblings := foldTree(t.leafHashes(), leafIndex)
	return &KeyProof{
		IsExclusion: true,
		ExclusionExtraData: EncodeExclusionExtra(&ExclusionExtra{
			PrevMarker: prevMarker,
			PrevKey:    prevKey,
			Salt:       salt,
			ValueHash:  valueHash,
		}),
		NextMarker:      nextMarker,
		NextKey:         nextKey,
		VerifierKeyHash: verifierKeyHash,
		Proof:           siblings,
		PathBits:        uint256.NewInt(uint64(leafIndex)),
	}, nil
}

// next returns the next-pointer fields of the leaf holding entry i (i == -1
// addresses the dummy head).
func (t *Tree) next(i int) (byte, common.Hash) {
	if i+1 < len(t.entries) {
		return ActiveMarker, t.entries[i+1].key
	}
	return DummyMarker, common.Hash{}
}

// leafHashes returns the hash of every leaf in tree order: the dummy head
// first, then the entries sorted by key.
func (t *Tree) leafHashes() []common.Hash {
	leaves := make([]common.Hash, 0, len(t.entries)+1)
	headNextMarker, headNextKey := t.next(-1)
	leaves = append(leaves, LeafHash(DummyMarker, common.Hash{}, headNextMarker, headNextKey, common.Hash{}))
	for i, e := range t.entries {
		nextMarker, nextKey := t.next(i)
		leaves = append(leaves, LeafHash(ActiveMarker, e.key, nextMarker, nextKey, e.valueHash))
	}
	return leaves
}

// foldTree hashes the leaf layer up to the root of a perfect binary tree
// (zero-padded to the next power of two) and collects the sibling path of the
// leaf at index.
func foldTree(leaves []common.Hash, index int) (common.Hash, []common.Hash) {
	width := 1
	for width < len(leaves) {
		width *= 2
	}
	level := make([]common.Hash, width)
	copy(level, leaves)

	var siblings []common.Hash
	pos := index
	for len(level) > 1 {
		siblings = append(siblings, level[pos^1])
		parent := make([]common.Hash, len(level)/2)
		for i := range parent {
			parent[i] = ReconstructRoot([]common.Hash{level[2*i+1]}, level[2*i], nil)
		}
		level = parent
		pos /= 2
	}
	return level[0], siblings
}
