package janitor

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pairpad/backend/internal/store"
	"github.com/pairpad/backend/internal/ws"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSweepDeletesStaleEmptyRooms(t *testing.T) {
	st := setupTestStore(t)
	registry := ws.NewRegistry()

	stale, err := st.CreateRoom("")
	require.NoError(t, err)

	// TTL zero makes every idle room stale immediately.
	svc := New(st, registry, Config{Interval: time.Hour, RoomTTL: 0}, zerolog.Nop())
	time.Sleep(1100 * time.Millisecond) // sqlite timestamps have second resolution
	svc.Sweep()

	got, err := st.GetRoom(stale.RoomID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweepKeepsOccupiedRooms(t *testing.T) {
	st := setupTestStore(t)
	registry := ws.NewRegistry()

	occupied, err := st.CreateRoom("")
	require.NoError(t, err)
	registry.Register(occupied.RoomID, ws.NewClient("a", occupied.RoomID, nil))

	svc := New(st, registry, Config{Interval: time.Hour, RoomTTL: 0}, zerolog.Nop())
	time.Sleep(1100 * time.Millisecond)
	svc.Sweep()

	got, err := st.GetRoom(occupied.RoomID)
	require.NoError(t, err)
	assert.NotNil(t, got, "a room with live connections must survive the sweep")
}

func TestSweepKeepsFreshRooms(t *testing.T) {
	st := setupTestStore(t)
	registry := ws.NewRegistry()

	fresh, err := st.CreateRoom("")
	require.NoError(t, err)

	svc := New(st, registry, Config{Interval: time.Hour, RoomTTL: time.Hour}, zerolog.Nop())
	svc.Sweep()

	got, err := st.GetRoom(fresh.RoomID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestStartStop(t *testing.T) {
	st := setupTestStore(t)
	registry := ws.NewRegistry()

	svc := New(st, registry, DefaultConfig(), zerolog.Nop())
	svc.Start()
	svc.Stop()
}
