package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL string
	Port        string
	AppEnv      string

	// KafkaBrokers is optional; without it the server runs with the
	// in-process hub only.
	KafkaBrokers []string
}

// Load reads configuration from a .env file (when present) and the process
// environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		PostgresURL: os.Getenv("POSTGRES_URL"),
		Port:        getenv("PORT", "8080"),
		AppEnv:      getenv("APP_ENV", "development"),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL environment variable is required")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
