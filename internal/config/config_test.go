package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "./data/pairpad.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Minute, cfg.JanitorInterval)
	assert.Equal(t, 24*time.Hour, cfg.RoomTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAIRPAD_DB_PATH", "/tmp/x.db")
	t.Setenv("PAIRPAD_CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("PAIRPAD_ROOM_TTL", "1h")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.RoomTTL)
}

func TestLoadBadDurationFallsBack(t *testing.T) {
	t.Setenv("PAIRPAD_JANITOR_INTERVAL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 10*time.Minute, cfg.JanitorInterval)
}
