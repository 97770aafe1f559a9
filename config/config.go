// Package config assembles statewire configuration from defaults, an
// optional JSON file, a .env file and STATEWIRE_-prefixed environment
// variables, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/statewire/store"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "STATEWIRE_"

const (
	defaultAddr            = "localhost:8080"
	defaultShutdownTimeout = 10 * time.Second
	minShutdownTimeout     = time.Second
	maxShutdownTimeout     = 5 * time.Minute
)

// Config holds the settings for every statewire component.
type Config struct {
	Server ServerConfig `json:"server" envPrefix:"SERVER_"`
	Store  store.Config `json:"store" envPrefix:"STORE_"`
	Log    LogConfig    `json:"log" envPrefix:"LOG_"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `json:"addr,omitempty" env:"ADDR"`
	ShutdownTimeout Duration `json:"shutdown_timeout,omitempty" env:"SHUTDOWN_TIMEOUT"`
}

// DefaultConfig returns a Config that serves on localhost with an
// in-memory store.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            defaultAddr,
			ShutdownTimeout: Duration(defaultShutdownTimeout),
		},
		Store: store.DefaultConfig(),
		Log:   DefaultLogConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Server.Addr != "" {
		c.Server.Addr = source.Server.Addr
	}
	if source.Server.ShutdownTimeout > 0 {
		c.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	c.Store.Merge(&source.Store)
	c.Log.Merge(&source.Log)
}

// Sanitize normalizes case and clamps values to workable ranges.
func (c *Config) Sanitize() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	switch d := time.Duration(c.Server.ShutdownTimeout); {
	case d <= 0:
		c.Server.ShutdownTimeout = Duration(defaultShutdownTimeout)
	case d < minShutdownTimeout:
		c.Server.ShutdownTimeout = Duration(minShutdownTimeout)
	case d > maxShutdownTimeout:
		c.Server.ShutdownTimeout = Duration(maxShutdownTimeout)
	}

	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendMemory
	}
	c.Store.Codec = strings.ToLower(strings.TrimSpace(c.Store.Codec))
	if c.Store.Redis.DB < 0 {
		c.Store.Redis.DB = 0
	}

	c.Log.Sanitize()
}

// LoadFile reads a JSON config file and merges it over the defaults.
func LoadFile(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// Load builds the effective configuration. filename and envFile are
// optional; without envFile a .env in the working directory is used when
// present. Environment variables override the file.
func Load(filename, envFile string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		loaded, err := LoadFile(filename)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if err := loadDotenv(envFile); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Sanitize()
	return &cfg, nil
}

func loadDotenv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}

	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}
