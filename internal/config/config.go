// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Auth policy names accepted in AUTH_POLICY.
const (
	PolicyMock      = "mock"
	PolicyDirectory = "directory"
	PolicyTable     = "table"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required and must be
	// non-empty; an empty value would otherwise surface much later as an
	// obscure connection error.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server. Set CORS_ORIGINS to a comma-separated
	// list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173"`

	// JWTSecret signs session tokens. Required and must be non-empty; an
	// empty secret would make every forged token verify.
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	// AuthPolicy selects the session backend: mock, directory, or table.
	// Defaults to directory.
	AuthPolicy string `env:"AUTH_POLICY" envDefault:"directory"`

	// SessionStorePath is the path of the file-backed session store.
	// Empty means sessions live only in memory and die with the process.
	SessionStorePath string `env:"SESSION_STORE_PATH"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any required variable that is not set, or an
// AuthPolicy value outside the known set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}

	switch cfg.AuthPolicy {
	case PolicyMock, PolicyDirectory, PolicyTable:
	default:
		return Config{}, fmt.Errorf("config.Load: unknown AUTH_POLICY %q (want mock, directory, or table)", cfg.AuthPolicy)
	}

	return cfg, nil
}
