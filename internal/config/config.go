// Package config reads server configuration from the environment.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port           string
	DatabaseDriver string // "sqlite3" or "postgres"
	DatabaseDSN    string
	GamesPath      string
	FrontendURL    string
	TokenSecret    string
	TokenTTL       time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	ttl := 5 * time.Minute
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			ttl = parsed
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseDriver: getEnv("DB_DRIVER", "sqlite3"),
		DatabaseDSN:    getEnv("DB_DSN", "./data/passplay.db"),
		GamesPath:      getEnv("GAMES_PATH", "./data/games.json"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),
		TokenSecret:    getEnv("TOKEN_SECRET", "dev-only-secret"),
		TokenTTL:       ttl,
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
