// Package config loads worklog configuration from ~/.worklog/config.yaml
// with environment overrides. Configuration is passed explicitly to the
// components that need it; there is no package-level singleton.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mhenders/worklog/internal/discovery"
)

// Config holds all application settings.
type Config struct {
	// BasePath is the root of the worklogs_YYYY/... hierarchy.
	// Supports leading ~. Default: ~/worklogs
	BasePath string `yaml:"base_path"`

	// DBPath is the SQLite index location. Default: ~/.worklog/worklog.db
	DBPath string `yaml:"db_path"`

	// ListenAddr is the HTTP server bind address. Default: 127.0.0.1:8754
	ListenAddr string `yaml:"listen_addr"`

	// AI settings for range summarization.
	AI AIConfig `yaml:"ai"`
}

// AIConfig configures the Anthropic summarizer.
type AIConfig struct {
	// Model used for summaries. Default: claude-sonnet-4-5-20250929
	Model string `yaml:"model"`

	// MaxTokens caps summary length. Default: 2048, Range: 256-16384
	MaxTokens int `yaml:"max_tokens"`

	// MaxConcurrent bounds in-flight summarization calls.
	// Default: 2, Range: 1-16
	MaxConcurrent int `yaml:"max_concurrent"`

	// RequestsPerMinute rate-limits calls to the API.
	// Default: 10, Range: 1-600
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BasePath:   "~/worklogs",
		DBPath:     "~/.worklog/worklog.db",
		ListenAddr: "127.0.0.1:8754",
		AI: AIConfig{
			Model:             "claude-sonnet-4-5-20250929",
			MaxTokens:         2048,
			MaxConcurrent:     2,
			RequestsPerMinute: 10,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(discovery.ExpandHome("~/.worklog"), "config.yaml")
}

// Load reads configuration from path, falling back to defaults when the
// file does not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults plus env cover it.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("WORKLOG_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("WORKLOG_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("WORKLOG_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("WORKLOG_MODEL"); v != "" {
		c.AI.Model = v
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("base_path must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.AI.Model == "" {
		return fmt.Errorf("ai.model must not be empty")
	}
	if c.AI.MaxTokens < 256 || c.AI.MaxTokens > 16384 {
		return fmt.Errorf("ai.max_tokens must be between 256 and 16384 (got %d)", c.AI.MaxTokens)
	}
	if c.AI.MaxConcurrent < 1 || c.AI.MaxConcurrent > 16 {
		return fmt.Errorf("ai.max_concurrent must be between 1 and 16 (got %d)", c.AI.MaxConcurrent)
	}
	if c.AI.RequestsPerMinute < 1 || c.AI.RequestsPerMinute > 600 {
		return fmt.Errorf("ai.requests_per_minute must be between 1 and 600 (got %d)", c.AI.RequestsPerMinute)
	}
	return nil
}

// ExpandedBasePath returns BasePath with ~ expansion applied.
func (c *Config) ExpandedBasePath() string {
	return discovery.ExpandHome(c.BasePath)
}

// ExpandedDBPath returns DBPath with ~ expansion applied.
func (c *Config) ExpandedDBPath() string {
	return discovery.ExpandHome(c.DBPath)
}
