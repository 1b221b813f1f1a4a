package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pairpad/backend/internal/store"
	"github.com/pairpad/backend/internal/ws"
)

// NewRouter assembles the full HTTP surface: REST glue plus the room
// websocket endpoint.
func NewRouter(st *store.Store, registry *ws.Registry, hub *ws.Hub, corsOrigins []string, log zerolog.Logger) http.Handler {
	a := New(st, registry, log)
	sessions := ws.NewSessionHandler(registry, hub, st, log)

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", a.HealthHandler)
	r.Get("/api/stats", a.StatsHandler)

	r.Route("/api/rooms", func(r chi.Router) {
		r.Get("/", a.ListRoomsHandler)
		r.Post("/", a.CreateRoomHandler)
		r.Get("/{id}", a.GetRoomHandler)
		r.Delete("/{id}", a.DeleteRoomHandler)
	})

	r.Post("/api/autocomplete", a.AutocompleteHandler)

	r.Get("/ws/rooms/{id}", sessions.ServeWS)

	return r
}
