// Package config loads the dispatch engine configuration from
// ~/.dispatch/config.json with environment variable overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// FileName is the config file name inside the config directory.
const FileName = "config.json"

// Config represents the flat dispatch configuration.
type Config struct {
	MaxDispatchSlots int    `json:"max_dispatch_slots" env:"DISPATCH_MAX_SLOTS"`
	DBPath           string `json:"db_path,omitempty" env:"DISPATCH_DB_PATH"`
	CatalogPath      string `json:"catalog_path,omitempty" env:"DISPATCH_CATALOG"` // empty uses the built-in regions
	TickIntervalMS   int    `json:"tick_interval_ms" env:"DISPATCH_TICK_INTERVAL_MS"`
	HistoryLimit     int    `json:"history_limit" env:"DISPATCH_HISTORY_LIMIT"`
	PlayerID         string `json:"player_id" env:"DISPATCH_PLAYER"`
	StrictUnits      bool   `json:"strict_units" env:"DISPATCH_STRICT_UNITS"`
	ValidateDuration bool   `json:"validate_duration" env:"DISPATCH_VALIDATE_DURATION"`
	GreatSuccess     bool   `json:"great_success" env:"DISPATCH_GREAT_SUCCESS"`
	FacilityLevel    int    `json:"facility_level" env:"DISPATCH_FACILITY_LEVEL"` // gates regions with an unlock condition
	LogLevel         string `json:"log_level" env:"DISPATCH_LOG_LEVEL"` // debug, info, warn, error
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	return &Config{
		MaxDispatchSlots: 2,
		TickIntervalMS:   1000,
		HistoryLimit:     20,
		PlayerID:         "local",
		ValidateDuration: true,
		LogLevel:         "info",
	}
}

// DefaultDir returns ~/.dispatch.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".dispatch"), nil
}

// LoadConfig reads config.json from dir on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Load reads the config file from dir, applies DISPATCH_* environment
// overrides and validates the result.
func Load(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dir, "dispatch.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.json to dir.
func SaveConfig(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.MaxDispatchSlots <= 0 {
		return fmt.Errorf("max_dispatch_slots must be positive, got %d", c.MaxDispatchSlots)
	}
	if c.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMS)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must not be negative, got %d", c.HistoryLimit)
	}
	if c.FacilityLevel < 0 {
		return fmt.Errorf("facility_level must not be negative, got %d", c.FacilityLevel)
	}
	if c.PlayerID == "" {
		return fmt.Errorf("player_id must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}
