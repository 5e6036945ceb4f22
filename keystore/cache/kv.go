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

import (
	"sync"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

// Store is the persistence boundary of the state cache. Blockhashes are a
// grow-only set, state root timestamps a grow-only map whose values only move
// forward in time.
type Store interface {
	PutBlockhash(h common.Hash) error
	HasBlockhash(h common.Hash) (bool, error)
	PutRootTimestamp(root common.Hash, timestamp uint64) error
	RootTimestamp(root common.Hash) (uint64, bool, error)
}

// MemoryStore keeps the cache state in process memory. It is the default
// backend and the one used in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	blockhash  map[common.Hash]struct{}
	timestamps map[common.Hash]uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blockhash:  map[common.Hash]struct{}{},
		timestamps: map[common.Hash]uint64{},
	}
}

func (s *MemoryStore) PutBlockhash(h common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockhash[h] = struct{}{}
	return nil
}

func (s *MemoryStore) HasBlockhash(h common.Hash) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blockhash[h]
	return ok, nil
}

func (s *MemoryStore) PutRootTimestamp(root common.Hash, timestamp uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timestamps[root] = timestamp
	return nil
}

func (s *MemoryStore) RootTimestamp(root common.Hash) (uint64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts, ok := s.timestamps[root]
	return ts, ok, nil
}
