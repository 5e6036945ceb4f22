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
	"github.com/holiman/uint256"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

// ReconstructRoot folds a sibling path onto a leaf and returns the resulting
// root. Bit i of pathBits selects the orientation of sibling i: set means the
// sibling is the left node when hashing, clear means it is the right node.
//
// An empty proof returns the leaf unchanged (a depth-0 tree). pathBits is
// read permissively: unset (or absent) high bits mean "sibling on the right",
// mirroring the original wire behavior. Callers that want strict bitmaps must
// bound-check len(proof) against pathBits themselves.
func ReconstructRoot(proof []common.Hash, leaf common.Hash, pathBits *uint256.Int) common.Hash {
	current := leaf
	for i, sibling := range proof {
		if pathBit(pathBits, i) {
			current = crypto.Keccak256Hash(sibling[:], current[:])
		} else {
			current = crypto.Keccak256Hash(current[:], sibling[:])
		}
	}
	return current
}

func pathBit(bits *uint256.Int, i int) bool {
	if bits == nil || i >= 256 {
		return false
	}
	return bits[i/64]>>(uint(i)%64)&1 == 1
}
