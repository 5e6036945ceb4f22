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
	// ErrNotInitialized is returned for accounts that never installed the
	// module, or uninstalled it.
	ErrNotInitialized = errors.New("validator: account not initialized")
	// ErrAlreadyInitialized is returned when an account installs twice.
	ErrAlreadyInitialized = errors.New("validator: account already initialized")
)

// InstallationData is the per-account module state. Each account owns its
// entry exclusively; only the account's own install, uninstall and config
// calls touch it.
type InstallationData struct {
	// InvalidationWindow is how long, in seconds, a signature stays valid
	// after the timestamp of the state root it was proven against.
	InvalidationWindow uint64
	// KeystoreAddress identifies the account's key data in the keystore tree.
	KeystoreAddress common.Hash
}

// Installations tracks InstallationData per account.
type Installations struct {
	mu       sync.RWMutex
	accounts map[common.Address]InstallationData
}

func NewInstallations() *Installations {
	return &Installations{accounts: map[common.Address]InstallationData{}}
}

// Install initializes the module for account.
func (m *Installations) Install(account common.Address, data InstallationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account]; ok {
		return ErrAlreadyInitialized
	}
	m.accounts[account] = data
	return nil
}

// Uninstall removes the account's installation data.
func (m *Installations) Uninstall(account common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account]; !ok {
		return ErrNotInitialized
	}
	delete(m.accounts, account)
	return nil
}

// Get returns the account's installation data.
func (m *Installations) Get(account common.Address) (InstallationData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.accounts[account]
	if !ok {
		return InstallationData{}, ErrNotInitialized
	}
	return data, nil
}

// SetInvalidationWindow updates the account's invalidation window.
func (m *Installations) SetInvalidationWindow(account common.Address, window uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.accounts[account]
	if !ok {
		return ErrNotInitialized
	}
	data.InvalidationWindow = window
	m.accounts[account] = data
	return nil
}

// SetKeystoreAddress repoints the account at a different keystore entry.
func (m *Installations) SetKeystoreAddress(account common.Address, keystoreAddress common.Hash) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.accounts[account]
	if !ok {
		return ErrNotInitialized
	}
	data.KeystoreAddress = keystoreAddress
	m.accounts[account] = data
	return nil
}
