// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file. Parent directories are created on
	// startup.
	DBPath string `env:"DB_PATH" envDefault:"./data/splitbase.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// AuthSecret, when set, turns on Bearer-token caller extraction. The
	// token issuer is the external identity layer; this is its shared HMAC
	// secret. Empty means the plain identity header is trusted as-is.
	AuthSecret string `env:"AUTH_SECRET"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
