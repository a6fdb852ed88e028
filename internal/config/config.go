// Package config loads tick's settings from ~/.tick/config.yaml with
// TICK_* environment overrides on top. A missing file just means defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config holds all tick configuration.
type Config struct {
	// InsertAtTop places newly added items at the head of the list
	// instead of appending. Bulk adds always append.
	InsertAtTop bool `yaml:"insert_at_top"`

	// Store selects the persistence backend: "json" or "sqlite".
	Store string `yaml:"store"`

	// DataDir is where the list file / database and logs live.
	DataDir string `yaml:"data_dir"`

	// Theme is the terminal theme name (classic, neon, mono).
	Theme string `yaml:"theme"`

	// Debug enables file logging under <data_dir>/logs.
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".tick")
	}
	return Config{
		Store:   "json",
		DataDir: dir,
		Theme:   "classic",
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tick", configFileName), nil
}

// Load reads the config file, falling back to defaults when it is absent,
// then applies environment overrides.
func Load() (Config, error) {
	cfg := Default()
	p, err := configPath()
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&cfg)
	if cfg.DataDir == "" {
		return cfg, fmt.Errorf("no data directory: set data_dir or TICK_DATA_DIR")
	}
	return cfg, nil
}

// Save writes the config with owner-only permissions, creating ~/.tick
// when needed.
func Save(cfg Config) error {
	p, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// applyEnv layers TICK_* variables over the file values.
func applyEnv(cfg *Config) {
	if v, ok := lookupBool("TICK_INSERT_AT_TOP"); ok {
		cfg.InsertAtTop = v
	}
	if v := strings.TrimSpace(os.Getenv("TICK_STORE")); v != "" {
		cfg.Store = v
	}
	if v := strings.TrimSpace(os.Getenv("TICK_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("TICK_THEME")); v != "" {
		cfg.Theme = v
	}
	if v, ok := lookupBool("TICK_DEBUG"); ok {
		cfg.Debug = v
	}
}

func lookupBool(key string) (value, ok bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
