// Package config loads and saves the display's settings as YAML in the
// platform config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPort is the OSC port TheatreMix speaks on.
const DefaultPort = 32000

// appDir is the directory under the platform config root, shared with
// earlier releases of the display.
const appDir = "theatremix-remote-display"

// Config is everything the display persists between runs.
type Config struct {
	// ListenPort is the UDP port the receiver binds.
	ListenPort int `yaml:"listen_port"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Stream enables the TCP ingest for consoles that send SLIP framed
	// OSC instead of datagrams.
	Stream StreamConfig `yaml:"stream,omitempty"`
}

// StreamConfig configures the optional TCP ingest.
type StreamConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// DefaultConfig returns the settings a fresh install runs with.
func DefaultConfig() *Config {
	return &Config{
		ListenPort: DefaultPort,
		LogLevel:   "info",
		Stream: StreamConfig{
			Enabled:    false,
			ListenAddr: ":32001",
		},
	}
}

// DefaultPath returns the per-user config file location, for example
// ~/.config/theatremix-remote-display/config.yaml on Linux.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: locate user config dir: %w", err)
	}
	return filepath.Join(base, appDir, "config.yaml"), nil
}

// LoadConfig reads the config at path. A missing file is not an error, it
// yields the defaults, so first runs work without any setup.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
