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

package proof

import (
	"errors"

	"github.com/holiman/uint256"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
	"github.com/rhinestonewtf/axiom-keystore-modules/trie"
)

// ErrSlotEmpty is returned when proving a slot the builder never set.
var ErrSlotEmpty = errors.New("proof: slot not set in builder")

// StateBuilder assembles a minimal source-chain state - accounts with storage
// tries - and produces StorageProofs against it. It is the prover side of
// this package: fixture generation in tests and the CLI self-check mode.
type StateBuilder struct {
	storages map[common.Address]*trie.Trie
	values   map[common.Address]map[common.Hash]common.Hash
}

// NewStateBuilder creates an empty state.
func NewStateBuilder() *StateBuilder {
	return &StateBuilder{
		storages: map[common.Address]*trie.Trie{},
		values:   map[common.Address]map[common.Hash]common.Hash{},
	}
}

// SetStorage writes value into the given slot of account's storage. Zero
// values are not representable in a trie and are ignored.
func (b *StateBuilder) SetStorage(account common.Address, slot, value common.Hash) {
	if value.IsZero() {
		return
	}
	st, ok := b.storages[account]
	if !ok {
		st = trie.New()
		b.storages[account] = st
		b.values[account] = map[common.Hash]common.Hash{}
	}
	st.Update(crypto.Keccak256(slot[:]), rlp.AppendString(nil, trimLeadingZeroes(value[:])))
	b.values[account][slot] = value
}

// StateRoot computes the root of the account trie over all accounts.
func (b *StateBuilder) StateRoot() common.Hash {
	return b.stateTrie().Hash()
}

// Prove produces the storage proof for (account, slot) anchored to header.
// The header's state root field is overwritten with the built state's root.
func (b *StateBuilder) Prove(account common.Address, slot common.Hash, header *Header) (*StorageProof, error) {
	st, ok := b.storages[account]
	if !ok {
		return nil, ErrSlotEmpty
	}
	value, ok := b.values[account][slot]
	if !ok {
		return nil, ErrSlotEmpty
	}
	state := b.stateTrie()
	header.Root = state.Hash()
	return &StorageProof{
		BlockHeader:  header.EncodeRLP(),
		StorageValue: value,
		AccountProof: state.Prove(crypto.Keccak256(account[:])),
		StorageProof: st.Prove(crypto.Keccak256(slot[:])),
	}, nil
}

func (b *StateBuilder) stateTrie() *trie.Trie {
	state := trie.New()
	for account, st := range b.storages {
		acc := Account{
			Nonce:    1,
			Balance:  uint256.NewInt(0),
			Root:     st.Hash(),
			CodeHash: crypto.Keccak256Hash(account[:]), // placeholder code identity
		}
		state.Update(crypto.Keccak256(account[:]), acc.EncodeRLP())
	}
	return state
}

func trimLeadingZeroes(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
