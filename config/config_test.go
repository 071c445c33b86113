package config

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "USD", cfg.Account.Currency)
	assert.True(t, cfg.StartingBalance().Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.RiskPercent().Equal(decimal.NewFromInt(10)))
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing currency", func(c *Config) { c.Account.Currency = "" }},
		{"bad balance", func(c *Config) { c.Account.StartingBalance = "lots" }},
		{"bad percent", func(c *Config) { c.Risk.DefaultPercent = "x" }},
		{"percent too big", func(c *Config) { c.Risk.DefaultPercent = "150" }},
		{"missing db path", func(c *Config) { c.Journal.DBPath = "" }},
		{"unknown tz", func(c *Config) { c.TZ = "Mars/Olympus" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradebook.yaml")

	cfg := Default()
	cfg.Account.StartingBalance = "2500.50"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2500.50", loaded.Account.StartingBalance)
	assert.Equal(t, cfg.Journal.DBPath, loaded.Journal.DBPath)
}

func TestSaveAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradebook.json")

	cfg := Default()
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Account.Currency, loaded.Account.Currency)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADEBOOK_DB", "/tmp/override.sqlite")
	t.Setenv("TRADEBOOK_STARTING_BALANCE", "5000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.sqlite", cfg.Journal.DBPath)
	assert.Equal(t, "5000", cfg.Account.StartingBalance)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Journal.DBPath, cfg.Journal.DBPath)
}
