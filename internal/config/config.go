// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	defaultTermsSize    = 5
	defaultTermsMinSize = 1
	defaultTermsMaxSize = 20
	defaultWorkspace    = "lens-workspace.yaml"
)

// Config holds the settings for layer editing and the CLI.
type Config struct {
	LogLevel  string // log level: debug, info, warn, error (default "info")
	Workspace string // path to the YAML workspace file (default "lens-workspace.yaml")

	// Terms column tuning.
	TermsDefaultSize int // size requested by new terms columns (default 5)
	TermsMinSize     int // lower bound offered by the size editor (default 1)
	TermsMaxSize     int // upper bound offered by the size editor (default 20)

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel:  os.Getenv("LOG_LEVEL"),
		Workspace: os.Getenv("LENS_WORKSPACE"),
	}

	var err error
	if cfg.TermsDefaultSize, err = parseIntEnv("LENS_TERMS_DEFAULT_SIZE"); err != nil {
		return nil, err
	}
	if cfg.TermsMinSize, err = parseIntEnv("LENS_TERMS_MIN_SIZE"); err != nil {
		return nil, err
	}
	if cfg.TermsMaxSize, err = parseIntEnv("LENS_TERMS_MAX_SIZE"); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Workspace == "" {
		c.Workspace = defaultWorkspace
	}
	if c.TermsMinSize <= 0 {
		c.TermsMinSize = defaultTermsMinSize
	}
	if c.TermsMaxSize <= 0 {
		c.TermsMaxSize = defaultTermsMaxSize
	}
	if c.TermsDefaultSize <= 0 {
		c.TermsDefaultSize = defaultTermsSize
	}
	if c.TermsDefaultSize < c.TermsMinSize || c.TermsDefaultSize > c.TermsMaxSize {
		c.Warnings = append(c.Warnings, fmt.Sprintf(
			"LENS_TERMS_DEFAULT_SIZE=%d is outside the editor range [%d, %d]",
			c.TermsDefaultSize, c.TermsMinSize, c.TermsMaxSize))
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.TermsMinSize > c.TermsMaxSize {
		return fmt.Errorf("LENS_TERMS_MIN_SIZE (%d) must not exceed LENS_TERMS_MAX_SIZE (%d)", c.TermsMinSize, c.TermsMaxSize)
	}
	return nil
}

func parseIntEnv(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
