package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "~/worklogs", cfg.BasePath)
	assert.Equal(t, "127.0.0.1:8754", cfg.ListenAddr)
	assert.Equal(t, 2048, cfg.AI.MaxTokens)
	assert.Equal(t, 2, cfg.AI.MaxConcurrent)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_path: /srv/journal
listen_addr: 0.0.0.0:9000
ai:
  max_tokens: 4096
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/journal", cfg.BasePath)
	assert.Equal(t, "0.0.0.0:9000", cfg.ListenAddr)
	assert.Equal(t, 4096, cfg.AI.MaxTokens)
	// Untouched keys keep their defaults.
	assert.Equal(t, "~/.worklog/worklog.db", cfg.DBPath)
	assert.Equal(t, 10, cfg.AI.RequestsPerMinute)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_path: /from/file\n"), 0644))
	t.Setenv("WORKLOG_BASE_PATH", "/from/env")
	t.Setenv("WORKLOG_ADDR", "127.0.0.1:7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.BasePath)
	assert.Equal(t, "127.0.0.1:7000", cfg.ListenAddr)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_path: [unclosed\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base path", func(c *Config) { c.BasePath = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty listen addr", func(c *Config) { c.ListenAddr = "" }},
		{"empty model", func(c *Config) { c.AI.Model = "" }},
		{"max tokens too small", func(c *Config) { c.AI.MaxTokens = 100 }},
		{"max tokens too large", func(c *Config) { c.AI.MaxTokens = 100000 }},
		{"zero concurrency", func(c *Config) { c.AI.MaxConcurrent = 0 }},
		{"concurrency too large", func(c *Config) { c.AI.MaxConcurrent = 64 }},
		{"zero rate", func(c *Config) { c.AI.RequestsPerMinute = 0 }},
		{"rate too large", func(c *Config) { c.AI.RequestsPerMinute = 1000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestExpandedPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, "worklogs"), cfg.ExpandedBasePath())
	assert.Equal(t, filepath.Join(home, ".worklog", "worklog.db"), cfg.ExpandedDBPath())
}
