// Package config provides server configuration for the grove demo server.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/grove-cms/grove/pkg/contentgraph"
)

// ServerConfig represents server configuration for the grove GraphQL server
type ServerConfig struct {
	Port        string `env:"GROVE_PORT" env-default:"8080"`
	Environment string `env:"GROVE_ENV" env-default:"development"` // development, production, testing
	LogLevel    string `env:"GROVE_LOG_LEVEL" env-default:"info"`

	// AssetsContext is the path or URL that relative asset fields resolve
	// against.
	AssetsContext string `env:"GROVE_ASSETS_CONTEXT" env-default:"/static"`

	// ContentTypes optionally carries JSON-encoded content-type definitions
	// registered in addition to the built-in ones.
	ContentTypes string `env:"GROVE_CONTENT_TYPES" env-default:""`
}

// Load reads configuration from the environment on top of library defaults.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *ServerConfig) Validate() error {
	switch c.Environment {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := c.ContentTypeDefs(); err != nil {
		return err
	}
	return nil
}

// ContentTypeDefs parses the configured content-type definitions.
func (c *ServerConfig) ContentTypeDefs() ([]contentgraph.ContentType, error) {
	if c.ContentTypes == "" {
		return nil, nil
	}
	var defs []contentgraph.ContentType
	if err := json.Unmarshal([]byte(c.ContentTypes), &defs); err != nil {
		return nil, fmt.Errorf("parse content type definitions: %w", err)
	}
	return defs, nil
}

// SlogLevel maps the configured log level onto slog.
func (c *ServerConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}
