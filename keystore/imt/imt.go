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

// Package imt implements the keystore's incremental Merkle tree primitives:
// leaf hashing, key siloing, and the reduction of inclusion/exclusion key
// proofs to the tree root they claim.
//
// The keystore tree is an ordered tree over (key, valueHash) pairs. Each leaf
// carries a pointer to the next key in the tree's total order, which is what
// makes exclusion provable: a key is absent iff it falls strictly inside the
// gap between two adjacent leaves.
package imt

import (
	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

// Leaf boundary markers. A dummy marker means "no real leaf on this side",
// i.e. the adjacent position is the edge of the tree.
const (
	DummyMarker  byte = 0x00
	ActiveMarker byte = 0x01
)

// leafDomain is the first byte of every hashed leaf preimage, separating leaf
// hashes from inner-node hashes.
const leafDomain byte = 0x01

// KeySiloTag namespaces the keystore's flat key space per application so that
// unrelated systems sharing one tree cannot collide.
var KeySiloTag = crypto.Keccak256Hash([]byte("axiom.keystore.key.v1"))

// LeafHash computes the hash of a keystore leaf node:
//
//	keccak256(0x01 || marker || key || nextMarker || nextKey || valueHash)
func LeafHash(marker byte, key common.Hash, nextMarker byte, nextKey, valueHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(
		[]byte{leafDomain, marker},
		key[:],
		[]byte{nextMarker},
		nextKey[:],
		valueHash[:],
	)
}

// SiloedKey maps a keystore address into the tree's key space.
func SiloedKey(keystoreAddress common.Hash) common.Hash {
	return crypto.Keccak256Hash(KeySiloTag[:], keystoreAddress[:])
}

// DeriveKeystoreAddress computes the counterfactual keystore address bound to
// a salt and the initial key data commitment.
func DeriveKeystoreAddress(salt, dataHash, verifierKeyHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(salt[:], dataHash[:], verifierKeyHash[:])
}

// ValueHash commits to the key data and the verifier it is bound to.
func ValueHash(dataHash, verifierKeyHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(dataHash[:], verifierKeyHash[:])
}
