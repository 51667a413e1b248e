package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Log levels accepted by LogLevel.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// RepairScheduleOff disables the periodic assignment repair.
const RepairScheduleOff = "off"

const repairScheduleEnv = "FLOOR_REPAIR_SCHEDULE"

// Config represents the flat floor configuration.
// Fields tagged with env can be overridden by environment variables.
type Config struct {
	Version           string `json:"version"`
	DBPath            string `json:"db_path,omitempty" env:"FLOOR_DB_PATH"`     // empty means ~/.floor/floor.db
	HTTPAddr          string `json:"http_addr,omitempty" env:"FLOOR_HTTP_ADDR"` // floor serve listen address
	JWTSecret         string `json:"-" env:"FLOOR_JWT_SECRET"`                  // never written to disk
	LogPath           string `json:"log_path,omitempty" env:"FLOOR_LOG_PATH"`   // empty logs to stderr
	LogLevel          string `json:"log_level,omitempty" env:"FLOOR_LOG_LEVEL"`
	RepairSchedule    string `json:"repair_schedule" env:"FLOOR_REPAIR_SCHEDULE"` // cron spec; "off" or "" disables
	SearchHorizonDays int    `json:"search_horizon_days,omitempty" env:"FLOOR_SEARCH_HORIZON_DAYS"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:           "1",
		HTTPAddr:          ":8080",
		LogLevel:          LogLevelInfo,
		RepairSchedule:    "@daily",
		SearchHorizonDays: 365,
	}
}

// Load resolves the effective configuration for dir:
// .env files, then .floor/config.json (or defaults), then environment overrides.
func Load(dir string) (*Config, error) {
	if err := LoadEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(dir)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	// env.Parse skips empty variables. An explicitly empty schedule still disables the repair.
	if v, ok := os.LookupEnv(repairScheduleEnv); ok && strings.TrimSpace(v) == "" {
		cfg.RepairSchedule = RepairScheduleOff
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads the given .env files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// LoadConfig reads .floor/config.json from the specified directory.
// Unset fields keep their defaults. The returned error wraps os.ErrNotExist
// when there is no config file.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".floor", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	floorDir := filepath.Join(dir, ".floor")
	if err := os.MkdirAll(floorDir, 0755); err != nil {
		return fmt.Errorf("failed to create .floor dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(floorDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "", LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.SearchHorizonDays < 0 {
		return fmt.Errorf("search horizon must not be negative, got %d", c.SearchHorizonDays)
	}
	if c.RepairEnabled() {
		if _, err := cron.ParseStandard(c.RepairSchedule); err != nil {
			return fmt.Errorf("invalid repair schedule %q: %w", c.RepairSchedule, err)
		}
	}
	return nil
}

// RepairEnabled reports whether the periodic assignment repair should run.
func (c *Config) RepairEnabled() bool {
	s := strings.TrimSpace(c.RepairSchedule)
	return s != "" && !strings.EqualFold(s, RepairScheduleOff)
}

// AuthEnabled reports whether HTTP requests must carry a signed token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
