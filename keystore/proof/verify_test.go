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
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
)

var (
	bridgeAccount = common.HexToAddress("0x000000000000000000000000000000000b71d6e5")
	bridgeSlot    = common.HexToHash("0x01")
)

func testHeader(timestamp uint64) *Header {
	return &Header{
		ParentHash: crypto.Keccak256Hash([]byte("parent")),
		Coinbase:   common.HexToAddress("0xc0ffee"),
		Difficulty: 0,
		Number:     19_000_000,
		GasLimit:   30_000_000,
		GasUsed:    12_345_678,
		Time:       timestamp,
		Extra:      []byte("keystore test"),
	}
}

func TestVerifyEndToEnd(t *testing.T) {
	value := crypto.Keccak256Hash([]byte("keystore root"))
	b := NewStateBuilder()
	b.SetStorage(bridgeAccount, bridgeSlot, value)

	p, err := b.Prove(bridgeAccount, bridgeSlot, testHeader(1_712_000_000))
	require.NoError(t, err)

	got, blockHash, err := p.Verify(bridgeAccount, bridgeSlot)
	require.NoError(t, err)
	require.Equal(t, value, got)
	require.Equal(t, crypto.Keccak256Hash(p.BlockHeader), blockHash)
}

func TestVerifyManyAccountsAndSlots(t *testing.T) {
	b := NewStateBuilder()
	type target struct {
		account common.Address
		slot    common.Hash
		value   common.Hash
	}
	var targets []target
	for i := byte(1); i <= 8; i++ {
		for j := byte(1); j <= 4; j++ {
			tg := target{
				account: common.BytesToAddress(crypto.Keccak256([]byte{'a', i})),
				slot:    common.BytesToHash([]byte{j}),
				value:   crypto.Keccak256Hash([]byte{'v', i, j}),
			}
			targets = append(targets, tg)
			b.SetStorage(tg.account, tg.slot, tg.value)
		}
	}
	for _, tg := range targets {
		p, err := b.Prove(tg.account, tg.slot, testHeader(1000))
		require.NoError(t, err)
		got, _, err := p.Verify(tg.account, tg.slot)
		require.NoError(t, err)
		require.Equal(t, tg.value, got)
	}
}

func TestVerifySmallValueLeftPadded(t *testing.T) {
	// Values with leading zeroes are stored trimmed in the trie and must be
	// padded back to 32 bytes.
	value := common.HexToHash("0x2a")
	b := NewStateBuilder()
	b.SetStorage(bridgeAccount, bridgeSlot, value)
	p, err := b.Prove(bridgeAccount, bridgeSlot, testHeader(1))
	require.NoError(t, err)
	got, _, err := p.Verify(bridgeAccount, bridgeSlot)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestVerifyRejectsZeroValue(t *testing.T) {
	p := &StorageProof{StorageValue: common.Hash{}}
	_, _, err := p.Verify(bridgeAccount, bridgeSlot)
	require.ErrorIs(t, err, ErrCannotVerifyExclusionProof)
}

func TestVerifyRejectsClaimMismatch(t *testing.T) {
	b := NewStateBuilder()
	b.SetStorage(bridgeAccount, bridgeSlot, crypto.Keccak256Hash([]byte("real value")))
	p, err := b.Prove(bridgeAccount, bridgeSlot, testHeader(1))
	require.NoError(t, err)

	p.StorageValue = crypto.Keccak256Hash([]byte("claimed value"))
	_, _, err = p.Verify(bridgeAccount, bridgeSlot)
	require.ErrorIs(t, err, ErrInvalidStorageValue)
}

func TestVerifyRejectsUnknownAccount(t *testing.T) {
	b := NewStateBuilder()
	b.SetStorage(bridgeAccount, bridgeSlot, crypto.Keccak256Hash([]byte("value")))
	p, err := b.Prove(bridgeAccount, bridgeSlot, testHeader(1))
	require.NoError(t, err)

	_, _, err = p.Verify(common.HexToAddress("0xdead"), bridgeSlot)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestVerifyRejectsTamperedStateRoot(t *testing.T) {
	b := NewStateBuilder()
	b.SetStorage(bridgeAccount, bridgeSlot, crypto.Keccak256Hash([]byte("value")))

	header := testHeader(1)
	p, err := b.Prove(bridgeAccount, bridgeSlot, header)
	require.NoError(t, err)

	// Re-encode the header with a different state root: the account proof
	// no longer connects to it.
	header.Root = crypto.Keccak256Hash([]byte("some other root"))
	p.BlockHeader = header.EncodeRLP()
	_, _, err = p.Verify(bridgeAccount, bridgeSlot)
	require.Error(t, err)
}

func TestDecodeHeaderFields(t *testing.T) {
	h := testHeader(1_712_345_678)
	h.Root = crypto.Keccak256Hash([]byte("state root"))
	fields, err := DecodeHeaderFields(h.EncodeRLP())
	require.NoError(t, err)
	require.Equal(t, h.Root, fields.StateRoot)
	require.Equal(t, uint64(1_712_345_678), fields.Timestamp)
}

func TestDecodeHeaderFieldsMalformed(t *testing.T) {
	// Not a list.
	_, err := DecodeHeaderFields([]byte{0x83, 'a', 'b', 'c'})
	require.ErrorIs(t, err, ErrMalformedHeader)
	// Truncated list: fewer than 12 fields.
	short := &Header{}
	enc := short.EncodeRLP()
	_, err = DecodeHeaderFields(enc[:len(enc)/2])
	require.Error(t, err)
	// Trailing bytes after the header list.
	full := testHeader(1).EncodeRLP()
	_, err = DecodeHeaderFields(append(full, 0x00))
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestAccountRoundTrip(t *testing.T) {
	acc := &Account{
		Nonce:    7,
		Balance:  uint256.NewInt(1_000_000_000),
		Root:     crypto.Keccak256Hash([]byte("storage")),
		CodeHash: crypto.Keccak256Hash([]byte("code")),
	}
	decoded, err := DecodeAccount(acc.EncodeRLP())
	require.NoError(t, err)
	require.Equal(t, acc, decoded)

	_, err = DecodeAccount([]byte{0xC0})
	require.ErrorIs(t, err, ErrMalformedAccount)
}
