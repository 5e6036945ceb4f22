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
	"fmt"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
	"github.com/rhinestonewtf/axiom-keystore-modules/trie"
)

var (
	// ErrCannotVerifyExclusionProof is returned for a zero storage value.
	// Trie proofs can prove the presence of a non-zero value but not the
	// emptiness of a slot, so zero is treated as unverifiable.
	ErrCannotVerifyExclusionProof = errors.New("proof: zero storage value cannot be proven")
	// ErrAccountNotFound is returned when the account proof resolves to a
	// provable absence of the account.
	ErrAccountNotFound = errors.New("proof: account not found in state trie")
	// ErrInvalidStorageValue is returned when the claimed storage value does
	// not match the value derived from the trie walk.
	ErrInvalidStorageValue = errors.New("proof: storage value does not match trie")
)

// StorageProof is the offline-produced evidence that a specific 32-byte value
// sits at a specific storage slot of a specific contract, anchored to the
// block whose RLP header it carries.
type StorageProof struct {
	BlockHeader  []byte
	StorageValue common.Hash
	AccountProof [][]byte
	StorageProof [][]byte
}

// Verify checks the full chain header -> state root -> account -> storage
// root -> slot value and returns the proven value together with the hash of
// the block the proof is anchored to. The claimed StorageValue is never
// trusted: it is independently derived from the trie walk and then compared.
func (p *StorageProof) Verify(account common.Address, slot common.Hash) (common.Hash, common.Hash, error) {
	if p.StorageValue.IsZero() {
		return common.Hash{}, common.Hash{}, ErrCannotVerifyExclusionProof
	}
	fields, err := DecodeHeaderFields(p.BlockHeader)
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}

	accountKey := crypto.Keccak256(account[:])
	accountRLP, err := trie.VerifyProof(fields.StateRoot, accountKey, p.AccountProof)
	if err != nil {
		return common.Hash{}, common.Hash{}, fmt.Errorf("account proof: %w", err)
	}
	if accountRLP == nil {
		return common.Hash{}, common.Hash{}, ErrAccountNotFound
	}
	acc, err := DecodeAccount(accountRLP)
	if err != nil {
		return common.Hash{}, common.Hash{}, err
	}

	slotKey := crypto.Keccak256(slot[:])
	valueRLP, err := trie.VerifyProof(acc.Root, slotKey, p.StorageProof)
	if err != nil {
		return common.Hash{}, common.Hash{}, fmt.Errorf("storage proof: %w", err)
	}
	if valueRLP == nil {
		// The slot is provably empty, which contradicts the non-zero claim.
		return common.Hash{}, common.Hash{}, fmt.Errorf("%w: slot is empty", ErrInvalidStorageValue)
	}
	// Trie values are RLP strings of the big-endian value with leading
	// zeroes stripped; undo that.
	content, rest, err := rlp.SplitString(valueRLP)
	if err != nil || len(rest) != 0 || len(content) > common.HashLength {
		return common.Hash{}, common.Hash{}, fmt.Errorf("%w: undecodable slot value", ErrInvalidStorageValue)
	}
	value := common.BytesToHash(content)
	if value != p.StorageValue {
		return common.Hash{}, common.Hash{}, fmt.Errorf("%w: have %s, proof claims %s",
			ErrInvalidStorageValue, value, p.StorageValue)
	}
	return value, crypto.Keccak256Hash(p.BlockHeader), nil
}
