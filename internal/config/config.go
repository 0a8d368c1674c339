// Package config holds the ambient, environment-driven settings of the
// profiler. Everything here has a sensible default so a bare invocation
// works without any environment setup.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from CVPROFILER_-prefixed environment variables.
type Config struct {
	// OutputDir is where artifacts land when -out is not given.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"."`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// LogFormat is "text" or "json".
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	// Sentinel is the finite magnitude substituted for ±Inf values in
	// the profile calculation. Accepted range 1e10 to 1e20.
	Sentinel float64 `envconfig:"SENTINEL" default:"1e20"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("cvprofiler", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment config: %w", err)
	}
	if cfg.Sentinel < 1e10 || cfg.Sentinel > 1e20 {
		return nil, fmt.Errorf("CVPROFILER_SENTINEL must be between 1e10 and 1e20, got %g", cfg.Sentinel)
	}
	return &cfg, nil
}

// NewLogger builds the process logger described by the config, writing to
// stderr so data output and diagnostics stay separable.
func (c *Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
