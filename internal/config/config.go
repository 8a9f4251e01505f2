// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Addr          string
	MongoURI      string
	MongoDatabase string
	RedisURL      string
	JWTSecret     string
	TokenTTL      time.Duration
	LogLevel      string
}

// Load reads configuration from the environment, applying development
// fallbacks for anything unset.
func Load() Config {
	return Config{
		Addr:          getenv("API_ADDR", ":8000"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "money_map"),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:     getenv("JWT_SECRET", "money-map-dev-secret"),
		TokenTTL:      time.Duration(getenvInt("TOKEN_TTL_SECONDS", 86400)) * time.Second,
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
