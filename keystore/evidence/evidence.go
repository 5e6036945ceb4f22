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

// Package evidence reads and writes the offline evidence interchange format:
// a JSON document carrying one storage proof plus the L1 block attestation it
// should be admitted under. Produced by an external fetch tool, consumed by
// the state cache's admission path.
package evidence

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/cache"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/proof"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrMalformedEvidence is returned for documents missing a required field.
var ErrMalformedEvidence = errors.New("evidence: malformed document")

// hexBytes marshals as 0x-prefixed hex.
type hexBytes []byte

func (b hexBytes) MarshalText() ([]byte, error) {
	return []byte("0x" + common.Bytes2Hex(b)), nil
}

func (b *hexBytes) UnmarshalText(input []byte) error {
	decoded, err := common.DecodeHex(string(input))
	if err != nil {
		return fmt.Errorf("invalid hex %q: %w", input, err)
	}
	*b = decoded
	return nil
}

// Evidence is one storage proof with its L1 anchor.
type Evidence struct {
	BlockHeader   hexBytes    `json:"blockHeader"`
	StorageValue  common.Hash `json:"storageValue"`
	AccountProof  []hexBytes  `json:"accountProof"`
	StorageProof  []hexBytes  `json:"storageProof"`
	L1BlockNumber uint64      `json:"l1BlockNumber"`
	L1BlockHash   common.Hash `json:"l1BlockHash"`
}

// Decode parses and validates an evidence document.
func Decode(r io.Reader) (*Evidence, error) {
	var e Evidence
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvidence, err)
	}
	if len(e.BlockHeader) == 0 {
		return nil, fmt.Errorf("%w: missing blockHeader", ErrMalformedEvidence)
	}
	if len(e.AccountProof) == 0 || len(e.StorageProof) == 0 {
		return nil, fmt.Errorf("%w: missing trie proofs", ErrMalformedEvidence)
	}
	if e.L1BlockHash.IsZero() {
		return nil, fmt.Errorf("%w: missing l1BlockHash", ErrMalformedEvidence)
	}
	return &e, nil
}

// Encode writes the document to w.
func (e *Evidence) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// ToStorageProof converts the document into the verifier's input form.
func (e *Evidence) ToStorageProof() *proof.StorageProof {
	return &proof.StorageProof{
		BlockHeader:  e.BlockHeader,
		StorageValue: e.StorageValue,
		AccountProof: toBytesSlices(e.AccountProof),
		StorageProof: toBytesSlices(e.StorageProof),
	}
}

// Oracle returns a static L1 block oracle pinned to the document's anchor
// block, for offline admission.
func (e *Evidence) Oracle() cache.StaticOracle {
	return cache.StaticOracle{Number: e.L1BlockNumber, Hash: e.L1BlockHash}
}

// FromStorageProof wraps a proof and its L1 anchor into a document.
func FromStorageProof(p *proof.StorageProof, l1BlockNumber uint64, l1BlockHash common.Hash) *Evidence {
	return &Evidence{
		BlockHeader:   p.BlockHeader,
		StorageValue:  p.StorageValue,
		AccountProof:  toHexSlices(p.AccountProof),
		StorageProof:  toHexSlices(p.StorageProof),
		L1BlockNumber: l1BlockNumber,
		L1BlockHash:   l1BlockHash,
	}
}

func toBytesSlices(in []hexBytes) [][]byte {
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = common.CopyBytes(b)
	}
	return out
}

func toHexSlices(in [][]byte) []hexBytes {
	out := make([]hexBytes, len(in))
	for i, b := range in {
		out[i] = common.CopyBytes(b)
	}
	return out
}
