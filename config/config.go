package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete journal configuration. Monetary and percent
// values are strings so they stay exact until parsed into decimals.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	TZ      string        `json:"tz,omitempty" yaml:"tz,omitempty"`
}

// AccountConfig seeds the balance chain.
type AccountConfig struct {
	Currency        string `json:"currency" yaml:"currency"`
	StartingBalance string `json:"starting_balance" yaml:"starting_balance"`
}

// RiskConfig drives the calendar's daily risk column.
type RiskConfig struct {
	DefaultPercent string `json:"default_percent" yaml:"default_percent"`
}

// JournalConfig locates the SQLite database.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// LoadFromFile loads configuration from a file (YAML or JSON based on what
// parses). Environment overrides are applied afterwards.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load returns the config from path when it exists, otherwise the default
// config with environment overrides applied.
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return LoadFromFile(path)
		}
	}
	cfg := Default()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TRADEBOOK_DB"); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv("TRADEBOOK_TZ"); v != "" {
		c.TZ = v
	}
	if v := os.Getenv("TRADEBOOK_STARTING_BALANCE"); v != "" {
		c.Account.StartingBalance = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if _, err := decimal.NewFromString(c.Account.StartingBalance); err != nil {
		return fmt.Errorf("account.starting_balance must be numeric: %w", err)
	}
	pct, err := decimal.NewFromString(c.Risk.DefaultPercent)
	if err != nil {
		return fmt.Errorf("risk.default_percent must be numeric: %w", err)
	}
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("risk.default_percent must be between 0 and 100")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.TZ != "" {
		if _, err := time.LoadLocation(c.TZ); err != nil {
			return fmt.Errorf("unknown tz %q: %w", c.TZ, err)
		}
	}
	return nil
}

// StartingBalance returns the account's opening balance. Call Validate first.
func (c *Config) StartingBalance() decimal.Decimal {
	return decimal.RequireFromString(c.Account.StartingBalance)
}

// RiskPercent returns the default risk percent for daily risk budgets.
func (c *Config) RiskPercent() decimal.Decimal {
	return decimal.RequireFromString(c.Risk.DefaultPercent)
}

// Location resolves the configured timezone, defaulting to local time.
func (c *Config) Location() *time.Location {
	if c.TZ == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return time.Local
	}
	return loc
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:        "USD",
			StartingBalance: "1000",
		},
		Risk: RiskConfig{
			DefaultPercent: "10",
		},
		Journal: JournalConfig{
			DBPath: "./tradebook.sqlite",
		},
	}
}
