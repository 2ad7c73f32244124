// Package config loads server configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/meikuraledutech/famtree"
	"gopkg.in/yaml.v3"
)

// MaxFileSize bounds the config file read from disk.
const MaxFileSize = 1024 * 1024

// Environment variables that override file values.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvListen      = "FAMTREE_LISTEN"
	EnvLogLevel    = "FAMTREE_LOG_LEVEL"
	EnvLogFormat   = "FAMTREE_LOG_FORMAT"
	EnvSeedFile    = "FAMTREE_SEED_FILE"
)

// Config is the server configuration.
type Config struct {
	Listen      string          `yaml:"listen" validate:"required"`
	DatabaseURL string          `yaml:"database_url"`
	LogLevel    string          `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string          `yaml:"log_format" validate:"oneof=text json"`
	SeedFile    string          `yaml:"seed_file"`
	SeedTreeID  string          `yaml:"seed_tree_id" validate:"required"`
	Icons       famtree.IconSet `yaml:"icons"`
}

var configValidate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:     ":3000",
		LogLevel:   "info",
		LogFormat:  "text",
		SeedTreeID: "default",
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if info.Size() > MaxFileSize {
			return Config{}, fmt.Errorf("config: %s exceeds %d bytes", path, MaxFileSize)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := configValidate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return Config{}, fmt.Errorf("config: field %s=%q fails %q", fe.Field(), fe.Value(), fe.Tag())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DatabaseURL, EnvDatabaseURL)
	set(&c.Listen, EnvListen)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.LogFormat, EnvLogFormat)
	set(&c.SeedFile, EnvSeedFile)
}

// Logger builds the slog logger described by the config.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
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
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
