// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultOwner          = "Me"
	DefaultTheme          = "classic"
	DefaultMinTitleLength = 3
	DefaultLogLevel       = "info"
	DefaultConfigFile     = "todo.toml"
)

// Config holds the full configuration for the todo app.
type Config struct {
	// Whose list this is; shown in titles.
	Owner string `toml:"owner"`

	// Starting data file (JSON or TOML). Empty means start empty.
	Seed string `toml:"seed"`

	// Display
	Theme string `toml:"theme"`
	Group bool   `toml:"group"`

	// Validation
	MinTitleLength int `toml:"min_title_length"`

	// Logging
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Owner:          DefaultOwner,
		Theme:          DefaultTheme,
		MinTitleLength: DefaultMinTitleLength,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads configuration in priority order:
// 1. Defaults
// 2. Config file (path, or todo.toml in the working directory when path is empty)
// 3. Environment variables
//
// An explicitly named file must exist; the implicit one is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			file = DefaultConfigFile
		}
	}
	if file != "" {
		if _, err := toml.DecodeFile(file, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromEnv overrides config from TODO_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_OWNER"); v != "" {
		cfg.Owner = v
	}
	if v := os.Getenv("TODO_SEED"); v != "" {
		cfg.Seed = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_GROUP"); v != "" {
		cfg.Group = boolFromString(v)
	}
	if v := os.Getenv("TODO_MIN_TITLE_LENGTH"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TODO_MIN_TITLE_LENGTH: %w", err)
		}
		cfg.MinTitleLength = n
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Owner) == "" {
		errs = append(errs, errors.New("owner must not be empty"))
	}
	if c.MinTitleLength < 1 {
		errs = append(errs, fmt.Errorf("min_title_length must be at least 1, got %d", c.MinTitleLength))
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		errs = append(errs, fmt.Errorf("invalid theme %q, must be one of: classic, neon, mono", c.Theme))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		errs = append(errs, fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	return errors.Join(errs...)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
