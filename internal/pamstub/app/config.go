package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AdminToken string // Optional: enables /admin routes when set

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./pamstub.db)
	PepperFile           string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	SessionTTL           time.Duration // Optional: lifetime of a login session (default: 30m)
	WelcomeBonusMinor    int64         // Optional: bonus credited to new wallets, in cents (default: 0)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		AdminToken:           os.Getenv("PAMSTUB_ADMIN_TOKEN"),
		DatabaseFile:         getEnvOrDefault("PAMSTUB_DATABASE_FILE", "pamstub.db"),
		PepperFile:           getEnvOrDefault("PAMSTUB_PEPPER_FILE", "pepper"),
		SessionTTL:           getEnvDurationOrDefault("PAMSTUB_SESSION_TTL", 30*time.Minute),
		WelcomeBonusMinor:    int64(getEnvIntOrDefault("PAMSTUB_WELCOME_BONUS_MINOR", 0)),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
