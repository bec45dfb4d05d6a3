package config

import (
	"os"
)

type Config struct {
	Port        string
	DatabaseURL string
	InsertKey   string
	RedisURL    string
	GinMode     string
}

// Load reads the process environment. DatabaseURL has no default: an empty
// value is reported by database.Connect and aborts startup.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		InsertKey:   getEnv("INSERT_KEY", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		GinMode:     getEnv("GIN_MODE", "release"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
