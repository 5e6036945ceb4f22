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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)

	bridge, err := cfg.cacheConfig()
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x9fcbefc62d6e11b23b092ca65e7a5f7581cea64f"), bridge.Bridge)
	require.Equal(t, common.HexToHash("0x05"), bridge.Slot)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keystore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[bridge]
address = "0x1111111111111111111111111111111111111111"
slot = "0x0a"

[log]
level = "debug"
`), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	bridge, err := cfg.cacheConfig()
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress("0x1111111111111111111111111111111111111111"), bridge.Bridge)
	require.Equal(t, common.HexToHash("0x0a"), bridge.Slot)
}

func TestCacheConfigRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.Bridge.Address = "0x1234"
	_, err := cfg.cacheConfig()
	require.Error(t, err)

	cfg = defaultConfig()
	cfg.Bridge.Slot = "not hex"
	_, err = cfg.cacheConfig()
	require.Error(t, err)
}
