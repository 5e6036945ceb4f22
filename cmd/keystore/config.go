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
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/cache"
)

// Config is the tool's TOML configuration.
type Config struct {
	Bridge BridgeConfig `toml:"bridge"`
	Log    LogConfig    `toml:"log"`
}

// BridgeConfig locates the keystore output root on the source chain.
type BridgeConfig struct {
	Address string `toml:"address"`
	Slot    string `toml:"slot"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func defaultConfig() Config {
	return Config{
		// Mainnet keystore bridge.
		Bridge: BridgeConfig{
			Address: "0x9fcbefc62d6e11b23b092ca65e7a5f7581cea64f",
			Slot:    "0x05",
		},
		Log: LogConfig{Level: "info"},
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) cacheConfig() (cache.Config, error) {
	addr, err := common.DecodeHex(c.Bridge.Address)
	if err != nil || len(addr) != common.AddressLength {
		return cache.Config{}, fmt.Errorf("bad bridge address %q", c.Bridge.Address)
	}
	slot, err := common.DecodeHex(c.Bridge.Slot)
	if err != nil || len(slot) > common.HashLength {
		return cache.Config{}, fmt.Errorf("bad bridge slot %q", c.Bridge.Slot)
	}
	return cache.Config{
		Bridge: common.BytesToAddress(addr),
		Slot:   common.BytesToHash(slot),
	}, nil
}
