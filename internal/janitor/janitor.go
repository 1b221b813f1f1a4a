package janitor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairpad/backend/internal/store"
	"github.com/pairpad/backend/internal/ws"
)

type Config struct {
	Interval time.Duration
	RoomTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Interval: 10 * time.Minute,
		RoomTTL:  24 * time.Hour,
	}
}

// Service periodically deletes rooms that have no live connections and have
// not been touched within the TTL.
type Service struct {
	store    *store.Store
	registry *ws.Registry
	config   Config
	log      zerolog.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

func New(st *store.Store, registry *ws.Registry, config Config, log zerolog.Logger) *Service {
	return &Service{
		store:    st,
		registry: registry,
		config:   config,
		log:      log,
		stop:     make(chan struct{}),
	}
}

func (s *Service) Start() {
	s.wg.Add(1)
	go s.run()
	s.log.Info().Dur("interval", s.config.Interval).Dur("ttl", s.config.RoomTTL).
		Msg("janitor started")
}

func (s *Service) Stop() {
	close(s.stop)
	s.wg.Wait()
	s.log.Info().Msg("janitor stopped")
}

func (s *Service) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Sweep removes stale rooms. A room with any live connection is never
// touched, regardless of age.
func (s *Service) Sweep() {
	rooms, err := s.store.ListRooms(1000, 0)
	if err != nil {
		s.log.Error().Err(err).Msg("janitor: list rooms")
		return
	}

	cutoff := time.Now().Add(-s.config.RoomTTL)
	deleted := 0
	for _, room := range rooms {
		if s.registry.Count(room.RoomID) > 0 {
			continue
		}
		if room.UpdatedAt.After(cutoff) {
			continue
		}
		if err := s.store.DeleteRoom(room.RoomID); err != nil {
			s.log.Warn().Err(err).Str("room", room.RoomID).Msg("janitor: delete room")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.log.Info().Int("deleted", deleted).Msg("janitor: swept stale rooms")
	}
}
