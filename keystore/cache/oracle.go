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

package cache

import "github.com/rhinestonewtf/axiom-keystore-modules/common"

// L1BlockOracle reports the source-chain block the local environment trusts,
// typically mirrored into the rollup by its system transactions. It is the
// only input to the cache that does not arrive inside a proof.
type L1BlockOracle interface {
	BlockNumber() (uint64, error)
	BlockHash() (common.Hash, error)
}

// StaticOracle is an L1BlockOracle pinned to one block. Used by tests and by
// offline verification, where the trusted block is read from the evidence
// file rather than a live chain.
type StaticOracle struct {
	Number uint64
	Hash   common.Hash
}

func (o StaticOracle) BlockNumber() (uint64, error) { return o.Number, nil }

func (o StaticOracle) BlockHash() (common.Hash, error) { return o.Hash, nil }
