// Package config loads the server configuration from a YAML file with
// environment variable overrides. Everything is resolved once at startup;
// the resulting struct is passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvToken  = "MONDAY_API_TOKEN"
	EnvAPIURL = "MONDAY_API_URL"
)

const (
	defaultIntervalSeconds = 60
	minIntervalSeconds     = 10
	defaultFetchLimit      = 25
)

// Config is the full server configuration.
type Config struct {
	Token              string `yaml:"token"`
	APIURL             string `yaml:"api_url"`
	APIVersion         string `yaml:"api_version"`
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute"`
	MaxRetries         int    `yaml:"max_retries"`
	LogLevel           string `yaml:"log_level"`

	Notifications Notifications `yaml:"notifications"`
	Sessions      Sessions      `yaml:"sessions"`
	Contacts      Contacts      `yaml:"contacts"`
}

// Notifications configures the update polling forwarder.
type Notifications struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalSeconds int    `yaml:"interval_seconds"`
	StatePath       string `yaml:"state_path"`
	FetchLimit      int    `yaml:"fetch_limit"`
}

// Sessions configures the session analytics integration.
type Sessions struct {
	DataDir string `yaml:"data_dir"`
}

// Contacts configures the contact allowlist sync integration.
type Contacts struct {
	ConfigPath string `yaml:"config_path"`
}

// DefaultPath returns the default config file location,
// ~/.config/monday-mcp/config.yaml (per-OS user config dir).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "monday-mcp", "config.yaml"), nil
}

// Load reads the config file at path, fills in defaults, and applies
// environment overrides. A missing file is not an error: defaults plus
// environment still make a usable config.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// Defaults + environment only.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if v := os.Getenv(EnvToken); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}

	cfg.applyDefaults(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) applyDefaults(baseDir string) {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Notifications.IntervalSeconds == 0 {
		c.Notifications.IntervalSeconds = defaultIntervalSeconds
	}
	if c.Notifications.IntervalSeconds < minIntervalSeconds {
		c.Notifications.IntervalSeconds = minIntervalSeconds
	}
	if c.Notifications.FetchLimit <= 0 {
		c.Notifications.FetchLimit = defaultFetchLimit
	}
	if c.Notifications.StatePath == "" {
		c.Notifications.StatePath = filepath.Join(baseDir, "notifications-state.json")
	}
	if c.Sessions.DataDir == "" {
		c.Sessions.DataDir = filepath.Join(baseDir, "sessions")
	}
	if c.Contacts.ConfigPath == "" {
		c.Contacts.ConfigPath = filepath.Join(baseDir, "contacts-allowlist.json")
	}
}

// Validate checks the fields without which the server cannot run.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("no API token: set token in the config file or %s in the environment", EnvToken)
	}
	return nil
}
