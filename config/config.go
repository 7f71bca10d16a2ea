package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config carries the deployment settings for a reward ledger instance.
type Config struct {
	DataDir                string `toml:"DataDir"`
	Environment            string `toml:"Environment"`
	AdminAddress           string `toml:"AdminAddress"`
	LedgerAddress          string `toml:"LedgerAddress"`
	RewardsDurationSeconds uint64 `toml:"RewardsDurationSeconds"`
}

const defaultRewardsDuration = 7 * 24 * 60 * 60 // one week

// Load reads the configuration from the given path, materialising a default
// file when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:                "./ledger-data",
		Environment:            "dev",
		RewardsDurationSeconds: defaultRewardsDuration,
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config required")
	}
	if c.RewardsDurationSeconds == 0 {
		return fmt.Errorf("RewardsDurationSeconds must be positive")
	}
	if c.AdminAddress != "" {
		if _, err := ParseAddress(c.AdminAddress); err != nil {
			return fmt.Errorf("AdminAddress: %w", err)
		}
	}
	if c.LedgerAddress != "" {
		if _, err := ParseAddress(c.LedgerAddress); err != nil {
			return fmt.Errorf("LedgerAddress: %w", err)
		}
	}
	return nil
}

// Admin returns the decoded administrator identity.
func (c *Config) Admin() ([20]byte, error) {
	return ParseAddress(c.AdminAddress)
}

// Ledger returns the decoded custody account identity.
func (c *Config) Ledger() ([20]byte, error) {
	return ParseAddress(c.LedgerAddress)
}

// ParseAddress decodes a 0x-prefixed hex account identity.
func ParseAddress(value string) ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", value, err)
	}
	if len(raw) != len(addr) {
		return addr, fmt.Errorf("invalid address %q: expected %d bytes", value, len(addr))
	}
	copy(addr[:], raw)
	return addr, nil
}
