package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "login_url: \"http://example.test/login\"\nlog_level: \"debug\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LoginURL != "http://example.test/login" {
		t.Errorf("expected overridden login url, got %q", cfg.LoginURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected overridden log level, got %q", cfg.LogLevel)
	}
	if cfg.Timeouts.LoginSeconds != 30 {
		t.Errorf("expected default login timeout preserved, got %d", cfg.Timeouts.LoginSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
