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

	"github.com/holiman/uint256"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
)

// ErrMalformedAccount is returned when the state trie yields something that
// is not a canonical 4-field account record.
var ErrMalformedAccount = errors.New("proof: malformed account record")

// Account is the state-trie account record.
type Account struct {
	Nonce    uint64
	Balance  *uint256.Int
	Root     common.Hash // storage trie root
	CodeHash common.Hash
}

// DecodeAccount parses the RLP account record stored in the state trie.
func DecodeAccount(enc []byte) (*Account, error) {
	content, rest, err := rlp.SplitList(enc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedAccount, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing bytes", ErrMalformedAccount)
	}
	var fields [4][]byte
	for i := range fields {
		fields[i], content, err = rlp.SplitString(content)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedAccount, i, err)
		}
	}
	if len(content) != 0 {
		return nil, fmt.Errorf("%w: too many fields", ErrMalformedAccount)
	}
	acc := &Account{Balance: new(uint256.Int)}
	if acc.Nonce, err = rlp.DecodeUint64(fields[0]); err != nil {
		return nil, fmt.Errorf("%w: nonce: %w", ErrMalformedAccount, err)
	}
	if len(fields[1]) > 32 {
		return nil, fmt.Errorf("%w: balance too large", ErrMalformedAccount)
	}
	acc.Balance.SetBytes(fields[1])
	if len(fields[2]) != common.HashLength || len(fields[3]) != common.HashLength {
		return nil, fmt.Errorf("%w: root/code hash must be 32 bytes", ErrMalformedAccount)
	}
	acc.Root = common.BytesToHash(fields[2])
	acc.CodeHash = common.BytesToHash(fields[3])
	return acc, nil
}

// EncodeRLP returns the canonical RLP encoding of the account record.
func (a *Account) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendUint64(payload, a.Nonce)
	balance := new(uint256.Int)
	if a.Balance != nil {
		balance.Set(a.Balance)
	}
	payload = rlp.AppendString(payload, balance.Bytes())
	payload = rlp.AppendString(payload, a.Root[:])
	payload = rlp.AppendString(payload, a.CodeHash[:])
	return rlp.WrapList(payload)
}
