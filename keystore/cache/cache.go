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

// Package cache maintains the local view of the keystore rollup state: a
// grow-only set of trusted source-chain blockhashes and, per keystore state
// root, the timestamp of the newest block the root was proven against.
//
// Blockhashes enter through the L1 block oracle only. State roots enter
// through storage proofs anchored to an already-cached blockhash, and a root's
// recorded timestamp never moves backwards, so a replayed proof against an old
// block cannot shadow a newer observation.
package cache

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/ledgerwatch/log/v3"
	"github.com/tidwall/btree"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/proof"
)

var (
	// ErrBlockhashNotFound is returned when a storage proof is anchored to a
	// block the oracle never attested.
	ErrBlockhashNotFound = errors.New("cache: blockhash not cached")
	// ErrStorageProofTooOld is returned when a proof carries an older
	// timestamp than the one already recorded for the same state root.
	ErrStorageProofTooOld = errors.New("cache: storage proof older than cached timestamp")
	// ErrZeroBlockhash is returned when the oracle reports the zero hash.
	ErrZeroBlockhash = errors.New("cache: oracle returned zero blockhash")
)

// headerCacheSize bounds the decoded-header memo. Evidence batches reuse the
// same handful of headers, so a small cache is enough.
const headerCacheSize = 1024

// Config identifies where the keystore state root lives on the source chain.
type Config struct {
	// Bridge is the rollup bridge contract holding the keystore output root.
	Bridge common.Address
	// Slot is the storage slot of the output root inside the bridge.
	Slot common.Hash
}

type rootStamp struct {
	timestamp uint64
	root      common.Hash
}

func rootStampLess(a, b rootStamp) bool {
	if a.timestamp != b.timestamp {
		return a.timestamp < b.timestamp
	}
	return a.root.Cmp(b.root) < 0
}

// StateCache admits blockhashes and state roots and answers which root is the
// freshest. Safe for concurrent use.
type StateCache struct {
	cfg    Config
	store  Store
	oracle L1BlockOracle
	logger log.Logger

	mu      sync.Mutex
	byTime  *btree.BTreeG[rootStamp]
	headers *lru.Cache[common.Hash, proof.HeaderFields]
}

// New creates a StateCache over the given store and oracle. A nil logger
// falls back to the root logger.
func New(cfg Config, store Store, oracle L1BlockOracle, logger log.Logger) *StateCache {
	if logger == nil {
		logger = log.New()
	}
	headers, _ := lru.New[common.Hash, proof.HeaderFields](headerCacheSize)
	return &StateCache{
		cfg:     cfg,
		store:   store,
		oracle:  oracle,
		logger:  logger,
		byTime:  btree.NewBTreeG[rootStamp](rootStampLess),
		headers: headers,
	}
}

// AdmitBlockhash reads the oracle's current blockhash and adds it to the
// trusted set. The set only grows: an attested block stays usable as a proof
// anchor forever.
func (c *StateCache) AdmitBlockhash() (common.Hash, error) {
	h, err := c.oracle.BlockHash()
	if err != nil {
		return common.Hash{}, fmt.Errorf("cache: oracle: %w", err)
	}
	if h.IsZero() {
		return common.Hash{}, ErrZeroBlockhash
	}
	if err := c.store.PutBlockhash(h); err != nil {
		return common.Hash{}, fmt.Errorf("cache: %w", err)
	}
	number, err := c.oracle.BlockNumber()
	if err == nil {
		c.logger.Debug("cached blockhash", "hash", h.TerminalString(), "number", number)
	}
	return h, nil
}

// AdmitStateRoot verifies the storage proof against the configured bridge
// slot and records the proven root under the anchor block's timestamp. The
// anchor blockhash must already be in the trusted set. Re-proving a root
// against an older block fails with ErrStorageProofTooOld; re-proving against
// the same or a newer block succeeds and keeps the newest timestamp.
func (c *StateCache) AdmitStateRoot(p *proof.StorageProof) (common.Hash, uint64, error) {
	root, blockHash, err := p.Verify(c.cfg.Bridge, c.cfg.Slot)
	if err != nil {
		return common.Hash{}, 0, err
	}
	ok, err := c.store.HasBlockhash(blockHash)
	if err != nil {
		return common.Hash{}, 0, fmt.Errorf("cache: %w", err)
	}
	if !ok {
		return common.Hash{}, 0, fmt.Errorf("%w: %s", ErrBlockhashNotFound, blockHash.TerminalString())
	}
	fields, err := c.headerFields(blockHash, p.BlockHeader)
	if err != nil {
		return common.Hash{}, 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	prev, found, err := c.store.RootTimestamp(root)
	if err != nil {
		return common.Hash{}, 0, fmt.Errorf("cache: %w", err)
	}
	if found {
		if fields.Timestamp < prev {
			return common.Hash{}, 0, fmt.Errorf("%w: have %d, proof anchored at %d",
				ErrStorageProofTooOld, prev, fields.Timestamp)
		}
		if fields.Timestamp == prev {
			return root, prev, nil
		}
		c.byTime.Delete(rootStamp{timestamp: prev, root: root})
	}
	if err := c.store.PutRootTimestamp(root, fields.Timestamp); err != nil {
		return common.Hash{}, 0, fmt.Errorf("cache: %w", err)
	}
	c.byTime.Set(rootStamp{timestamp: fields.Timestamp, root: root})
	c.logger.Info("cached state root", "root", root.TerminalString(), "timestamp", fields.Timestamp)
	return root, fields.Timestamp, nil
}

// LatestStateRoot returns the cached root with the newest timestamp.
func (c *StateCache) LatestStateRoot() (common.Hash, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.byTime.Max()
	if !ok {
		return common.Hash{}, 0, false
	}
	return item.root, item.timestamp, true
}

// StateRootTimestamp returns the timestamp recorded for root, or false if the
// root was never admitted.
func (c *StateCache) StateRootTimestamp(root common.Hash) (uint64, bool) {
	ts, ok, err := c.store.RootTimestamp(root)
	if err != nil || !ok {
		return 0, false
	}
	return ts, true
}

// HasBlockhash reports whether h is in the trusted blockhash set.
func (c *StateCache) HasBlockhash(h common.Hash) bool {
	ok, err := c.store.HasBlockhash(h)
	return err == nil && ok
}

func (c *StateCache) headerFields(blockHash common.Hash, headerRLP []byte) (proof.HeaderFields, error) {
	if fields, ok := c.headers.Get(blockHash); ok {
		return fields, nil
	}
	fields, err := proof.DecodeHeaderFields(headerRLP)
	if err != nil {
		return proof.HeaderFields{}, err
	}
	c.headers.Add(blockHash, *fields)
	return *fields, nil
}
