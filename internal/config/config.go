// Package config loads the session core's startup configuration from a
// YAML file, in the teacher's loadConfig() style generalized from a
// hardcoded struct to a parsed file.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds everything the Mailbox needs to start: where to reach the
// login service, which local sockets to bind for the UI transport, and
// the viewer identity string sent on every login attempt.
type Config struct {
	LoginURL     string `yaml:"login_url"`
	UIListenAddr string `yaml:"ui_listen_addr"`
	UIPeerAddr   string `yaml:"ui_peer_addr"`

	Viewer struct {
		Channel  string `yaml:"channel"`
		Version  string `yaml:"version"`
		Platform string `yaml:"platform"`
		Mac      string `yaml:"mac"`
	} `yaml:"viewer"`

	Timeouts struct {
		LoginSeconds      int `yaml:"login_seconds"`
		CapabilitySeconds int `yaml:"capability_seconds"`
		SessionIdleSeconds int `yaml:"session_idle_seconds"`
	} `yaml:"timeouts"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration used when no file is
// supplied, mirroring the teacher's hardcoded loadConfig() values.
func Default() Config {
	var c Config
	c.LoginURL = "http://127.0.0.1:9000"
	c.UIListenAddr = "/tmp/metaverse-session.sock"
	c.UIPeerAddr = "/tmp/metaverse-ui.sock"
	c.Viewer.Channel = "metaverse-session"
	c.Viewer.Version = "0.1.0"
	c.Viewer.Platform = "lin"
	c.Viewer.Mac = "00:00:00:00:00:00"
	c.Timeouts.LoginSeconds = 30
	c.Timeouts.CapabilitySeconds = 30
	c.Timeouts.SessionIdleSeconds = 60
	c.LogLevel = "info"
	return c
}

// Load reads and parses a YAML configuration file at path, starting from
// Default() so a partial file only overrides what it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: parse")
	}
	return cfg, nil
}
