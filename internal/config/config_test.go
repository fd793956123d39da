package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"FINANCE_CONFIG", "DATA_BACKEND", "FINANCE_DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "CURRENCY"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("FINANCE_DB_PATH", "/tmp/x.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CURRENCY", "EUR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "finance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: "+filepath.Join(dir, "ledger.db")+"\ncurrency: USD\n"), 0o644))

	t.Setenv("FINANCE_CONFIG", path)
	t.Setenv("CURRENCY", "GBP")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ledger.db"), cfg.DBPath)
	assert.Equal(t, "GBP", cfg.Currency, "environment wins over file")
	assert.Equal(t, "sqlite", cfg.DataBackend)
}

func TestLoadYAMLFileErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("FINANCE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("db_path: [unterminated"), 0o644))
	t.Setenv("FINANCE_CONFIG", bad)
	_, err = Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "finance.yaml")
	want := Default()
	want.Currency = "CHF"
	require.NoError(t, Save(path, want))

	t.Setenv("FINANCE_CONFIG", path)
	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfig_Validate(t *testing.T) {
	fileInDir := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(fileInDir, nil, 0o644))

	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"valid memory without path", func(c *Config) { c.DataBackend = "memory"; c.DBPath = "" }, ""},
		{"invalid backend", func(c *Config) { c.DataBackend = "sheets" }, "invalid data backend 'sheets': must be one of [sqlite memory]"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "database path cannot be empty when using sqlite backend"},
		{"db path is a dir", func(c *Config) { c.DBPath = t.TempDir() }, "is a directory"},
		{"db parent is a file", func(c *Config) { c.DBPath = filepath.Join(fileInDir, "x.db") }, "is not a directory"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level 'loud'"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format 'xml'"},
		{"empty currency", func(c *Config) { c.Currency = " " }, "currency cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errorString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestValidateAggregatesErrors(t *testing.T) {
	cfg := &Config{DataBackend: "nope", LogLevel: "x", LogFormat: "y"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid data backend")
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Contains(t, err.Error(), "invalid log format")
	assert.Contains(t, err.Error(), "currency cannot be empty")
}
