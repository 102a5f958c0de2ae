package config

import (
	"os"
)

// Config holds application configuration
type Config struct {
	// Database settings. DatabaseType selects the backend (sqlite,
	// postgres, mysql); DatabasePath is used for SQLite, DatabaseURL
	// for the networked backends.
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// Reminder email settings (Amazon SES). Leaving SESFromEmail empty
	// disables email delivery.
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// Debug enables verbose logging in services
	Debug bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./bookme.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SESFromName:    getEnv("SES_FROM_NAME", "BookMe"),
		Debug:          getEnv("DEBUG", "") != "",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
