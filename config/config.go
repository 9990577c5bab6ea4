// Package config loads the caller-supplied AccountsDb configuration from a
// TOML file (spec §5.3): shrink ratio, secondary-index flags, cache-enabled
// flag, and the optional debug slot-count limit. No environment variables,
// no CLI flags (spec §6 non-goal).
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/solarbank/accountsdb/accountsdb"
)

// AccountsDbConfig is the on-disk shape of the AccountsDb configuration
// file.
type AccountsDbConfig struct {
	AccountSecondaryIndexes        bool     `toml:"account_secondary_indexes"`
	CachingEnabled                 bool     `toml:"caching_enabled"`
	ShrinkRatio                    float64  `toml:"shrink_ratio"`
	LimitLoadSlotCountFromSnapshot *int     `toml:"limit_load_slot_count_from_snapshot"`
	AccountPaths                   []string `toml:"account_paths"`
}

// ToAccountsDbConfig projects the loaded file onto accountsdb.Config, the
// subset the in-memory db itself needs.
func (c AccountsDbConfig) ToAccountsDbConfig() accountsdb.Config {
	return accountsdb.Config{
		AccountSecondaryIndexes: c.AccountSecondaryIndexes,
		CachingEnabled:          c.CachingEnabled,
		ShrinkRatio:             c.ShrinkRatio,
	}
}

// Load reads and parses an AccountsDbConfig from a TOML file at path.
func Load(path string) (AccountsDbConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AccountsDbConfig{}, errors.Wrapf(err, "read config %s", path)
	}
	var cfg AccountsDbConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return AccountsDbConfig{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// EnsureDirs creates every account-paths directory idempotently (spec §7
// supplemented feature, mirroring the original's pre-remap directory
// creation).
func EnsureDirs(paths []string) error {
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return errors.Wrapf(err, "create account path %s", p)
		}
	}
	return nil
}

// GenesisConfig is the external genesis provider collaborator (spec §9):
// enough of the genesis block to derive the epoch schedule the filler
// routine needs. Everything else about genesis (accounts, native
// instructions, fee rates, ...) belongs to the caller.
type GenesisConfig struct {
	EpochSchedule accountsdb.GenesisEpochSchedule `toml:"epoch_schedule"`
}

// LoadGenesis reads and parses a GenesisConfig from a TOML file at path.
func LoadGenesis(path string) (GenesisConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GenesisConfig{}, errors.Wrapf(err, "read genesis config %s", path)
	}
	var cfg GenesisConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return GenesisConfig{}, errors.Wrapf(err, "parse genesis config %s", path)
	}
	return cfg, nil
}
