package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration, populated from the environment.
// A .env file in the working directory is loaded first if present.
type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	DatabasePath    string `envconfig:"DATABASE_PATH" default:"profile.db"`
	MemberSourceURL string `envconfig:"MEMBER_SOURCE_URL"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps the configured level name onto a slog level, defaulting to
// info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
