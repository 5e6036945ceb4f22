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

// Package validator turns cached keystore state into signature decisions. An
// account presents key data with a key proof; the proof reduces to a state
// root, the root resolves to the timestamp it was proven at, and the
// timestamp bounds the interval during which the account's signatures are
// acceptable.
package validator

import (
	"errors"
	"fmt"

	"github.com/ledgerwatch/log/v3"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/cache"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/imt"
)

var (
	// ErrStateRootNotFound is returned when the root a proof reduces to was
	// never admitted into the state cache.
	ErrStateRootNotFound = errors.New("validator: state root not cached")
	// ErrInvalidSignature is returned when the stateless validator rejects
	// the signature over the authenticated key data.
	ErrInvalidSignature = errors.New("validator: signature rejected")
)

// ValidityWindow is the half-open interval during which a proven signature is
// acceptable.
type ValidityWindow struct {
	ValidAfter uint64 // inclusive
	ValidUntil uint64 // exclusive
}

// Contains reports whether timestamp falls inside the window.
func (w ValidityWindow) Contains(timestamp uint64) bool {
	return timestamp >= w.ValidAfter && timestamp < w.ValidUntil
}

// Window derives the validity interval from a resolved root timestamp and the
// account's invalidation window. A zero timestamp means the root was never
// admitted.
func Window(timestamp, invalidationWindow uint64) (ValidityWindow, error) {
	if timestamp == 0 {
		return ValidityWindow{}, ErrStateRootNotFound
	}
	return ValidityWindow{ValidAfter: timestamp, ValidUntil: timestamp + invalidationWindow}, nil
}

// Authorization is the signature payload an account attaches to a request.
type Authorization struct {
	Proof     imt.KeyProof
	Signature []byte
}

// KeystoreValidator composes the key-proof verifier, the state cache and the
// stateless validator registry into the module's validation entry point.
type KeystoreValidator struct {
	cache    *cache.StateCache
	registry *Registry
	installs *Installations
	logger   log.Logger
}

func New(c *cache.StateCache, registry *Registry, installs *Installations, logger log.Logger) *KeystoreValidator {
	if logger == nil {
		logger = log.New()
	}
	return &KeystoreValidator{cache: c, registry: registry, installs: installs, logger: logger}
}

// Installations exposes the per-account module state for install, uninstall
// and config calls.
func (v *KeystoreValidator) Installations() *Installations { return v.installs }

// ValidateSignature checks a request signature for account.
//
// The proof's key data is hashed and reduced, together with the account's
// registered keystore address, to a claimed state root. The root must be
// cached; its timestamp and the account's invalidation window produce the
// validity interval. The signature itself is checked by the stateless
// validator the proof's verifier key hash names. Both the proof chain and the
// signature must hold; the caller still has to check the returned window
// against its own clock.
func (v *KeystoreValidator) ValidateSignature(account common.Address, messageHash common.Hash, auth *Authorization) (ValidityWindow, error) {
	inst, err := v.installs.Get(account)
	if err != nil {
		return ValidityWindow{}, err
	}
	dataHash := crypto.Keccak256Hash(auth.Proof.KeyData)
	root, err := imt.DeriveRoot(&auth.Proof, dataHash, inst.KeystoreAddress)
	if err != nil {
		return ValidityWindow{}, err
	}
	timestamp, ok := v.cache.StateRootTimestamp(root)
	if !ok {
		return ValidityWindow{}, fmt.Errorf("%w: %s", ErrStateRootNotFound, root.TerminalString())
	}
	window, err := Window(timestamp, inst.InvalidationWindow)
	if err != nil {
		return ValidityWindow{}, err
	}
	sv, err := v.registry.Lookup(auth.Proof.VerifierKeyHash)
	if err != nil {
		return ValidityWindow{}, err
	}
	ok, err = sv.Verify(messageHash, auth.Signature, auth.Proof.KeyData)
	if err != nil {
		return ValidityWindow{}, fmt.Errorf("validator: %w", err)
	}
	if !ok {
		return ValidityWindow{}, ErrInvalidSignature
	}
	v.logger.Debug("signature validated",
		"account", account,
		"root", root.TerminalString(),
		"validAfter", window.ValidAfter,
		"validUntil", window.ValidUntil,
	)
	return window, nil
}
