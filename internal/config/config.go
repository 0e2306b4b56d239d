package config

import (
	"os"
)

// Config holds application configuration
type Config struct {
	DatabaseType   string // "sqlite", "postgres", or "mysql"
	DatabaseURL    string // connection URL for postgres/mysql
	DatabasePath   string // file path for sqlite
	MigrationsPath string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./roster.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
