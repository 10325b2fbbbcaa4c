package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the client.
type Config struct {
	Environment string        `env:"GO_ENV" envDefault:"development"`
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	StateDir    string        `env:"STATE_DIR"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
// It attempts to load from a .env file if not in production.
func Load() (*Config, error) {
	environment := os.Getenv("GO_ENV")
	if environment == "" {
		environment = "development"
	}

	// In production we rely on system environment variables only; a missing
	// .env file elsewhere is not fatal.
	if environment != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".eventease")
	}

	return cfg, nil
}
