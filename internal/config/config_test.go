package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
token: file-token
api_url: https://example.test/v2
log_level: debug
notifications:
  enabled: true
  interval_seconds: 120
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "file-token" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.APIURL != "https://example.test/v2" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.IntervalSeconds != 120 {
		t.Errorf("Notifications = %+v", cfg.Notifications)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Notifications.IntervalSeconds != 60 {
		t.Errorf("IntervalSeconds = %d, want 60", cfg.Notifications.IntervalSeconds)
	}
	if cfg.Notifications.FetchLimit != 25 {
		t.Errorf("FetchLimit = %d, want 25", cfg.Notifications.FetchLimit)
	}
	if cfg.Notifications.StatePath == "" {
		t.Error("StatePath not defaulted")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "token: file-token\napi_url: https://file.test\n")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvAPIURL, "https://env.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Token != "env-token" {
		t.Errorf("Token = %q, want env override", cfg.Token)
	}
	if cfg.APIURL != "https://env.test" {
		t.Errorf("APIURL = %q, want env override", cfg.APIURL)
	}
}

func TestLoadClampsPollInterval(t *testing.T) {
	path := writeConfig(t, "notifications:\n  interval_seconds: 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notifications.IntervalSeconds != 10 {
		t.Errorf("IntervalSeconds = %d, want clamped to 10", cfg.Notifications.IntervalSeconds)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "token: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted empty token")
	}
	cfg.Token = "t"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
