// Package config loads settings from the environment (and an optional .env
// file) for both the client commands and the local server.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Client side.
	ServerURL string `env:"GEOFLOW_SERVER" envDefault:"http://127.0.0.1:8644"`
	ProjectID string `env:"GEOFLOW_PROJECT"`
	SessionID string `env:"GEOFLOW_SESSION"`
	CSRFToken string `env:"GEOFLOW_CSRF" envDefault:"dev"`

	// Local server (`geoflow serve`).
	Addr     string `env:"GEOFLOW_ADDR" envDefault:"127.0.0.1:8644"`
	DBPath   string `env:"GEOFLOW_DB" envDefault:".geoflow/geoflow.sqlite"`
	LogLevel string `env:"GEOFLOW_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
