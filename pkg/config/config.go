// Package config loads the application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Server holds the HTTP listener settings.
type Server struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"3000"`
}

// Addr returns the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DB holds the database settings. When URL is empty the server runs on the
// in-memory store.
type DB struct {
	URL string `envconfig:"URL"`
}

// Log holds the logger settings.
type Log struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"openfinance"`
}

// AppConfig is the full application configuration.
type AppConfig struct {
	Env    string `envconfig:"APP_ENV" default:"development"`
	Server Server `envconfig:"SERVER"`
	DB     DB     `envconfig:"DATABASE"`
	Log    Log    `envconfig:"LOG"`
}

// Load reads the optional .env file and the process environment.
func Load(envFile string, logger *slog.Logger) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil {
		logger.Warn("no .env file found, using system environment variables")
	}
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	return &cfg, nil
}
