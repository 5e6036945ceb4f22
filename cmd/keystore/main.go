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

// keystore is the offline companion tool of the keystore validator module: it
// verifies evidence documents, replays them through the admission protocol,
// derives keystore addresses and generates synthetic fixtures.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ledgerwatch/log/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rhinestonewtf/axiom-keystore-modules/common"
	"github.com/rhinestonewtf/axiom-keystore-modules/crypto"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/cache"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/evidence"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/imt"
	"github.com/rhinestonewtf/axiom-keystore-modules/keystore/proof"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	configPath string
	cfg        Config
	bridge     cache.Config
	logger     log.Logger
}

func rootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:          "keystore",
		Short:        "keystore evidence verification and admission tool",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if a.cfg, err = loadConfig(a.configPath); err != nil {
				return err
			}
			if a.bridge, err = a.cfg.cacheConfig(); err != nil {
				return err
			}
			lvl, err := log.LvlFromString(a.cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("bad log level %q: %w", a.cfg.Log.Level, err)
			}
			log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StderrHandler))
			a.logger = log.New()
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to TOML config")
	cmd.AddCommand(verifyCommand(a), admitCommand(a), deriveAddressCommand(), fixtureCommand(a))
	return cmd
}

// verifyCommand checks evidence files independently and in parallel: each
// proof is verified against the configured bridge slot without touching any
// cache state.
func verifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-evidence <file>...",
		Short: "verify storage proofs in evidence files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _ := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.NumCPU())
			for _, path := range args {
				path := path
				g.Go(func() error {
					e, err := readEvidence(path)
					if err != nil {
						return err
					}
					p := e.ToStorageProof()
					value, blockHash, err := p.Verify(a.bridge.Bridge, a.bridge.Slot)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					fields, err := proof.DecodeHeaderFields(p.BlockHeader)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					a.logger.Info("evidence verified",
						"file", path,
						"root", value,
						"blockHash", blockHash.TerminalString(),
						"timestamp", fields.Timestamp,
					)
					return nil
				})
			}
			return g.Wait()
		},
	}
}

// settableOracle lets the admission replay repoint the trusted block between
// evidence files.
type settableOracle struct {
	cur cache.StaticOracle
}

func (o *settableOracle) BlockNumber() (uint64, error) { return o.cur.BlockNumber() }

func (o *settableOracle) BlockHash() (common.Hash, error) { return o.cur.BlockHash() }

// admitCommand replays evidence files, in order, through the full admission
// protocol and reports the resulting latest state root.
func admitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "admit <file>...",
		Short: "replay evidence files through the admission protocol",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oracle := &settableOracle{}
			c := cache.New(a.bridge, cache.NewMemoryStore(), oracle, a.logger)
			for _, path := range args {
				e, err := readEvidence(path)
				if err != nil {
					return err
				}
				oracle.cur = e.Oracle()
				if _, err := c.AdmitBlockhash(); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				root, timestamp, err := c.AdmitStateRoot(e.ToStorageProof())
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				a.logger.Info("admitted", "file", path, "root", root, "timestamp", timestamp)
			}
			root, timestamp, ok := c.LatestStateRoot()
			if !ok {
				return fmt.Errorf("no state root admitted")
			}
			fmt.Printf("latest state root: %s (timestamp %d)\n", root, timestamp)
			return nil
		},
	}
}

// deriveAddressCommand computes the counterfactual keystore address and its
// siloed tree key from the initial key data commitment.
func deriveAddressCommand() *cobra.Command {
	var saltHex, dataHashHex, vkHashHex string
	cmd := &cobra.Command{
		Use:   "derive-address",
		Short: "derive a keystore address from salt, data hash and verifier key hash",
		RunE: func(cmd *cobra.Command, args []string) error {
			salt, err := parseHash(saltHex)
			if err != nil {
				return fmt.Errorf("--salt: %w", err)
			}
			dataHash, err := parseHash(dataHashHex)
			if err != nil {
				return fmt.Errorf("--data-hash: %w", err)
			}
			vkHash, err := parseHash(vkHashHex)
			if err != nil {
				return fmt.Errorf("--vkey-hash: %w", err)
			}
			addr := imt.DeriveKeystoreAddress(salt, dataHash, vkHash)
			fmt.Printf("keystore address: %s\n", addr)
			fmt.Printf("siloed key:       %s\n", imt.SiloedKey(addr))
			return nil
		},
	}
	cmd.Flags().StringVar(&saltHex, "salt", "", "32-byte salt (hex)")
	cmd.Flags().StringVar(&dataHashHex, "data-hash", "", "keccak256 of the key data (hex)")
	cmd.Flags().StringVar(&vkHashHex, "vkey-hash", "", "verifier key hash (hex)")
	for _, flag := range []string{"salt", "data-hash", "vkey-hash"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

// fixtureCommand writes a synthetic evidence document to stdout: a one-entry
// keystore tree whose root is proven out of a freshly built bridge state.
// Useful for exercising verify-evidence and admit without a live chain.
func fixtureCommand(a *app) *cobra.Command {
	var timestamp, blockNumber uint64
	var seed string
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "generate a synthetic evidence file",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree := imt.NewTree()
			dataHash := crypto.Keccak256Hash([]byte(seed))
			vkHash := crypto.Keccak256Hash([]byte(seed + "/vkey"))
			salt := crypto.Keccak256Hash([]byte(seed + "/salt"))
			tree.Insert(imt.DeriveKeystoreAddress(salt, dataHash, vkHash), dataHash, vkHash)

			b := proof.NewStateBuilder()
			b.SetStorage(a.bridge.Bridge, a.bridge.Slot, tree.Root())
			p, err := b.Prove(a.bridge.Bridge, a.bridge.Slot, &proof.Header{
				Number: blockNumber,
				Time:   timestamp,
			})
			if err != nil {
				return err
			}
			e := evidence.FromStorageProof(p, blockNumber, crypto.Keccak256Hash(p.BlockHeader))
			return e.Encode(os.Stdout)
		},
	}
	cmd.Flags().Uint64Var(&timestamp, "timestamp", 1_700_000_000, "block timestamp")
	cmd.Flags().Uint64Var(&blockNumber, "block-number", 19_000_000, "block number")
	cmd.Flags().StringVar(&seed, "seed", "fixture", "seed for the synthetic key data")
	return cmd
}

func readEvidence(path string) (*evidence.Evidence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := evidence.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

func parseHash(s string) (common.Hash, error) {
	b, err := common.DecodeHex(s)
	if err != nil {
		return common.Hash{}, err
	}
	if len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("value longer than 32 bytes")
	}
	return common.BytesToHash(b), nil
}
