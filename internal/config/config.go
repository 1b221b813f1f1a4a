package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all server settings, loaded from environment variables.
type Config struct {
	Addr            string
	DBPath          string
	CORSOrigins     []string
	JanitorInterval time.Duration
	RoomTTL         time.Duration
}

func Load() Config {
	cfg := Config{
		Addr:            ":" + getEnvOrDefault("PORT", "8080"),
		DBPath:          getEnvOrDefault("PAIRPAD_DB_PATH", "./data/pairpad.db"),
		JanitorInterval: getDurationOrDefault("PAIRPAD_JANITOR_INTERVAL", 10*time.Minute),
		RoomTTL:         getDurationOrDefault("PAIRPAD_ROOM_TTL", 24*time.Hour),
	}

	origins := getEnvOrDefault("PAIRPAD_CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
