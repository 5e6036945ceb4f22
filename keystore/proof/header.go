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

// Package proof verifies cross-chain storage proofs: an RLP block header plus
// two Merkle Patricia trie proofs pinning a storage value of a contract on
// the source chain to that header's state root.
package proof

import (
	"errors"
	"fmt"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/rlp"
)

// Positions of the fields this package cares about inside the canonical
// execution block header list.
const (
	headerFieldStateRoot = 3
	headerFieldTimestamp = 11
	headerMinFields      = 12
)

// ErrMalformedHeader is returned when the block header is not a canonical RLP
// header list.
var ErrMalformedHeader = errors.New("proof: malformed block header")

// HeaderFields holds the two header fields the keystore bridge needs.
type HeaderFields struct {
	StateRoot common.Hash
	Timestamp uint64
}

// DecodeHeaderFields extracts the state root and timestamp from an
// RLP-encoded execution block header.
func DecodeHeaderFields(headerRLP []byte) (*HeaderFields, error) {
	content, rest, err := rlp.SplitList(headerRLP)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedHeader, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing bytes after header list", ErrMalformedHeader)
	}
	fields := &HeaderFields{}
	for i := 0; i < headerMinFields; i++ {
		if len(content) == 0 {
			return nil, fmt.Errorf("%w: %d fields, want at least %d", ErrMalformedHeader, i, headerMinFields)
		}
		var field []byte
		field, content, err = rlp.SplitString(content)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedHeader, i, err)
		}
		switch i {
		case headerFieldStateRoot:
			if len(field) != common.HashLength {
				return nil, fmt.Errorf("%w: state root is %d bytes", ErrMalformedHeader, len(field))
			}
			fields.StateRoot = common.BytesToHash(field)
		case headerFieldTimestamp:
			fields.Timestamp, err = rlp.DecodeUint64(field)
			if err != nil {
				return nil, fmt.Errorf("%w: timestamp: %w", ErrMalformedHeader, err)
			}
		}
	}
	return fields, nil
}

// Header is a buildable execution block header. It exists for the prover
// side: fixtures, the CLI self-check, and anything else that needs to
// assemble a header whose hash and field layout match the real chain's.
type Header struct {
	ParentHash  common.Hash
	UncleHash   common.Hash
	Coinbase    common.Address
	Root        common.Hash
	TxHash      common.Hash
	ReceiptHash common.Hash
	Bloom       [256]byte
	Difficulty  uint64
	Number      uint64
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   common.Hash
	Nonce       [8]byte
}

// EncodeRLP returns the canonical RLP encoding of the header.
func (h *Header) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendString(payload, h.ParentHash[:])
	payload = rlp.AppendString(payload, h.UncleHash[:])
	payload = rlp.AppendString(payload, h.Coinbase[:])
	payload = rlp.AppendString(payload, h.Root[:])
	payload = rlp.AppendString(payload, h.TxHash[:])
	payload = rlp.AppendString(payload, h.ReceiptHash[:])
	payload = rlp.AppendString(payload, h.Bloom[:])
	payload = rlp.AppendUint64(payload, h.Difficulty)
	payload = rlp.AppendUint64(payload, h.Number)
	payload = rlp.AppendUint64(payload, h.GasLimit)
	payload = rlp.AppendUint64(payload, h.GasUsed)
	payload = rlp.AppendUint64(payload, h.Time)
	payload = rlp.AppendString(payload, h.Extra)
	payload = rlp.AppendString(payload, h.MixDigest[:])
	payload = rlp.AppendString(payload, h.Nonce[:])
	return rlp.WrapList(payload)
}
