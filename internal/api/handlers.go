package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/pairpad/backend/internal/autocomplete"
	"github.com/pairpad/backend/internal/store"
	"github.com/pairpad/backend/internal/ws"
)

type API struct {
	store    *store.Store
	registry *ws.Registry
	log      zerolog.Logger
}

func New(st *store.Store, registry *ws.Registry, log zerolog.Logger) *API {
	return &API{store: st, registry: registry, log: log}
}

func (a *API) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.log.Error().Err(err).Msg("encode json response")
	}
}

func (a *API) errorResponse(w http.ResponseWriter, status int, message string) {
	a.jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	a.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"active_rooms":   a.registry.RoomCount(),
		"active_clients": a.registry.ClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if total, err := a.store.RoomCount(); err == nil {
		stats["total_rooms"] = total
	}

	a.jsonResponse(w, http.StatusOK, stats)
}

// Room handlers

type RoomResponse struct {
	RoomID      string    `json:"room_id"`
	CodeContent string    `json:"code_content"`
	Language    string    `json:"language"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ActiveUsers int       `json:"active_users"`
}

type CreateRoomRequest struct {
	Language string `json:"language"`
}

func (a *API) roomResponse(room *store.Room) RoomResponse {
	return RoomResponse{
		RoomID:      room.RoomID,
		CodeContent: room.CodeContent,
		Language:    room.Language,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
		ActiveUsers: a.registry.Count(room.RoomID),
	}
}

func (a *API) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			a.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	room, err := a.store.CreateRoom(req.Language)
	if err != nil {
		a.log.Error().Err(err).Msg("create room")
		a.errorResponse(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	a.jsonResponse(w, http.StatusCreated, a.roomResponse(room))
}

func (a *API) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	room, err := a.store.GetRoom(roomID)
	if err != nil {
		a.log.Error().Err(err).Str("room", roomID).Msg("get room")
		a.errorResponse(w, http.StatusInternalServerError, "Failed to get room")
		return
	}
	if room == nil {
		a.errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	a.jsonResponse(w, http.StatusOK, a.roomResponse(room))
}

func (a *API) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	rooms, err := a.store.ListRooms(limit, offset)
	if err != nil {
		a.log.Error().Err(err).Msg("list rooms")
		a.errorResponse(w, http.StatusInternalServerError, "Failed to list rooms")
		return
	}

	response := make([]RoomResponse, len(rooms))
	for i := range rooms {
		response[i] = a.roomResponse(&rooms[i])
	}

	a.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms":  response,
		"limit":  limit,
		"offset": offset,
	})
}

func (a *API) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	if err := a.store.DeleteRoom(roomID); err != nil {
		a.log.Error().Err(err).Str("room", roomID).Msg("delete room")
		a.errorResponse(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}

	a.jsonResponse(w, http.StatusOK, map[string]string{"message": "Room deleted"})
}

// Autocomplete

type AutocompleteRequest struct {
	Code           string `json:"code"`
	CursorPosition int    `json:"cursor_position"`
	Language       string `json:"language"`
}

type AutocompleteResponse struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

func (a *API) AutocompleteHandler(w http.ResponseWriter, r *http.Request) {
	var req AutocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Language == "" {
		req.Language = store.DefaultLanguage
	}

	suggestion, confidence := autocomplete.Suggest(req.Code, req.CursorPosition, req.Language)

	a.jsonResponse(w, http.StatusOK, AutocompleteResponse{
		Suggestion: suggestion,
		Confidence: confidence,
	})
}
