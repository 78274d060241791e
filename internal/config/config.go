package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string
	LogPath   string
}

// Load reads configuration from a .env file (when present) and the
// environment, with development defaults.
func Load() *Config {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", ":8080"),
		DBPath:    getEnv("DB_PATH", "./data/fieldmile.db"),
		JWTSecret: getEnv("JWT_SECRET", "change-me-in-production"),
		LogPath:   getEnv("LOG_PATH", "./logs/app.log"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
