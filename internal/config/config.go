// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	Port         string          `env:"CASHLEDGER_PORT" envDefault:"8080"`
	Storage      string          `env:"CASHLEDGER_STORAGE" envDefault:"sqlite"`
	SQLitePath   string          `env:"CASHLEDGER_SQLITE_PATH" envDefault:"cashledger.db"`
	DatabaseURL  string          `env:"DATABASE_URL"`
	KafkaBrokers []string        `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string          `env:"KAFKA_TOPIC" envDefault:"transaction_recorded"`
	OpeningFloat decimal.Decimal `env:"CASHLEDGER_OPENING_FLOAT" envDefault:"100.00"`
	LogLevel     string          `env:"CASHLEDGER_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env files (missing ones are ignored) and then the process
// environment. Variables already set in the environment win over .env.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config: DATABASE_URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("config: unknown storage %q (want memory, sqlite or postgres)", c.Storage)
	}
	if !c.OpeningFloat.IsPositive() {
		return fmt.Errorf("config: opening float must be positive, got %s", c.OpeningFloat)
	}
	return nil
}

// PublishingEnabled reports whether transaction events go to Kafka.
func (c Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
