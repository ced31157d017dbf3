// Package config handles configuration loading and management for Plead.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig points the client at the drafting backend.
type BackendConfig struct {
	// BaseURL is the backend address (default: http://localhost:8000)
	BaseURL string
	// APIPrefix is the path prefix for API routes (default: /api)
	APIPrefix string
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
}

// DefaultsConfig pre-fills the structured draft form.
type DefaultsConfig struct {
	CaseType     string
	Jurisdiction string
}

// LoggingConfig configures the log output.
type LoggingConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// Config represents the complete Plead configuration.
type Config struct {
	Backend  BackendConfig
	Defaults DefaultsConfig
	// SnippetsDir is the directory of reusable case-description snippets.
	SnippetsDir string
	Logging     LoggingConfig
}

// rawConfig is used for YAML unmarshaling.
type rawConfig struct {
	Backend struct {
		URL            string `yaml:"url"`
		APIPrefix      string `yaml:"api_prefix"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"backend"`
	Defaults struct {
		CaseType     string `yaml:"case_type"`
		Jurisdiction string `yaml:"jurisdiction"`
	} `yaml:"defaults"`
	SnippetsDir string `yaml:"snippets_dir"`
	Logging     struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`
}

// DefaultConfigPath returns the configuration file path: the PLEADRC
// environment variable if set, otherwise ~/.pleadrc.
func DefaultConfigPath() string {
	if envPath := os.Getenv("PLEADRC"); envPath != "" {
		return envPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ".pleadrc"
	}
	return filepath.Join(home, ".pleadrc")
}

// Default returns the built-in configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "http://localhost:8000",
			APIPrefix: "/api",
			Timeout:   120 * time.Second,
		},
		Defaults: DefaultsConfig{
			CaseType:     "civil",
			Jurisdiction: "district",
		},
	}
}

// Load reads and parses the configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML configuration data into a Config struct, filling in
// defaults for anything unset.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := Default()

	if raw.Backend.URL != "" {
		cfg.Backend.BaseURL = raw.Backend.URL
	}
	if raw.Backend.APIPrefix != "" {
		cfg.Backend.APIPrefix = raw.Backend.APIPrefix
	}
	if raw.Backend.TimeoutSeconds > 0 {
		cfg.Backend.Timeout = time.Duration(raw.Backend.TimeoutSeconds) * time.Second
	}
	if raw.Defaults.CaseType != "" {
		cfg.Defaults.CaseType = raw.Defaults.CaseType
	}
	if raw.Defaults.Jurisdiction != "" {
		cfg.Defaults.Jurisdiction = raw.Defaults.Jurisdiction
	}
	cfg.SnippetsDir = raw.SnippetsDir
	cfg.Logging = LoggingConfig{
		Level:      raw.Logging.Level,
		File:       raw.Logging.File,
		MaxSizeMB:  raw.Logging.MaxSizeMB,
		MaxBackups: raw.Logging.MaxBackups,
	}

	return cfg, nil
}
