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

package validator

import (
	"errors"
	"sync"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

var (
	// ErrAlreadyRegistered is returned when a code hash is registered twice.
	ErrAlreadyRegistered = errors.New("validator: code hash already registered")
	// ErrCodeHashMismatch is returned when an implementation's self-reported
	// code hash does not match the hash it is being registered under.
	ErrCodeHashMismatch = errors.New("validator: code hash mismatch")
	// ErrValidatorNotFound is returned for signatures referencing a code hash
	// that was never registered.
	ErrValidatorNotFound = errors.New("validator: stateless validator not registered")
)

// StatelessValidator is the pluggable signature-check capability. An
// implementation is pure: the key data given per call is its only state.
type StatelessValidator interface {
	// CodeHash is the content identity of the validator's logic.
	CodeHash() common.Hash
	// Verify reports whether signature authenticates messageHash under the
	// given key data.
	Verify(messageHash common.Hash, signature, keyData []byte) (bool, error)
}

// Registry maps validator code hashes to implementations. Registration is
// append-only.
type Registry struct {
	mu         sync.RWMutex
	validators map[common.Hash]StatelessValidator
}

func NewRegistry() *Registry {
	return &Registry{validators: map[common.Hash]StatelessValidator{}}
}

// Register binds codeHash to v. The implementation must agree that codeHash
// is its identity.
func (r *Registry) Register(codeHash common.Hash, v StatelessValidator) error {
	if v.CodeHash() != codeHash {
		return ErrCodeHashMismatch
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.validators[codeHash]; ok {
		return ErrAlreadyRegistered
	}
	r.validators[codeHash] = v
	return nil
}

// Lookup resolves a code hash to its registered implementation.
func (r *Registry) Lookup(codeHash common.Hash) (StatelessValidator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.validators[codeHash]
	if !ok {
		return nil, ErrValidatorNotFound
	}
	return v, nil
}
