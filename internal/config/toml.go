// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Vault      VaultConfig      `toml:"vault"`
	Goals      GoalsConfig      `toml:"goals"`
	Properties PropertiesConfig `toml:"properties"`
	Tracking   TrackingConfig   `toml:"tracking"`
}

// VaultConfig locates the documents.
type VaultConfig struct {
	Dir     *string  `toml:"dir"`
	Exclude []string `toml:"exclude,omitempty"`
}

// GoalsConfig seeds the goals of a fresh settings blob.
type GoalsConfig struct {
	Daily   *int `toml:"daily"`
	Weekly  *int `toml:"weekly"`
	Monthly *int `toml:"monthly"`
	Session *int `toml:"session"`
}

// PropertiesConfig names the front matter keys.
type PropertiesConfig struct {
	Goal      *string `toml:"goal"`
	WordCount *string `toml:"word-count"`
}

// TrackingConfig tunes the watch loop.
type TrackingConfig struct {
	StartingCount  *int    `toml:"starting-count"`
	WritebackDelay *string `toml:"writeback-delay"`
	PollInterval   *string `toml:"poll-interval"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating the directory when needed.
func SaveConfig(path string, cfg FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
