package ws

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/pairpad/backend/internal/store"
)

// RoomStore is the slice of the persistence layer a session needs.
type RoomStore interface {
	GetRoom(id string) (*store.Room, error)
	SaveCode(id, code string) error
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionHandler runs the per-connection lifecycle: accept, load room state,
// announce the join, dispatch inbound frames, announce the leave.
type SessionHandler struct {
	registry *Registry
	hub      *Hub
	store    RoomStore
	log      zerolog.Logger
}

func NewSessionHandler(registry *Registry, hub *Hub, st RoomStore, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, hub: hub, store: st, log: log}
}

// ServeWS upgrades the request and drives the session to completion.
func (h *SessionHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	clientID := fmt.Sprintf("%s-%d", conn.RemoteAddr().String(), time.Now().UnixNano())
	client := NewClient(clientID, roomID, conn)
	go client.WritePump()

	room, err := h.store.GetRoom(roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("room lookup failed")
		client.Close()
		return
	}
	if room == nil {
		// Never registered: a room-not-found connection must not appear in
		// the registry or receive broadcasts.
		if err := h.hub.SendTo(client, ErrorMessage{Type: "error", Message: "Room not found"}); err != nil {
			h.log.Warn().Err(err).Str("room", roomID).Msg("error frame delivery failed")
		}
		client.Close()
		return
	}

	h.registry.Register(roomID, client)
	h.log.Info().Str("room", roomID).Str("client", clientID).
		Int("users", h.registry.Count(roomID)).Msg("client joined")

	// Count is taken after registering so it includes the newcomer.
	if err := h.hub.SendTo(client, InitMessage{
		Type:       "init",
		Code:       room.CodeContent,
		Language:   room.Language,
		UsersCount: h.registry.Count(roomID),
	}); err != nil {
		h.log.Warn().Err(err).Str("client", clientID).Msg("init snapshot delivery failed")
	}

	h.hub.Broadcast(roomID, UserJoinedMessage{
		Type:       "user_joined",
		UsersCount: h.registry.Count(roomID),
	}, client)

	h.readLoop(client)

	// Deregister before announcing so the count excludes the leaver.
	h.registry.Deregister(roomID, client)
	client.Close()
	h.hub.Broadcast(roomID, UserLeftMessage{
		Type:       "user_left",
		UsersCount: h.registry.Count(roomID),
	}, nil)
	h.log.Info().Str("room", roomID).Str("client", clientID).
		Int("users", h.registry.Count(roomID)).Msg("client left")
}

// readLoop processes inbound frames until the connection closes or errors.
// Clean closes and protocol errors take the same exit path.
func (h *SessionHandler) readLoop(c *Client) {
	c.prepareRead()

	rateLimitWarnings := 0

	for {
		data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Str("client", c.ID()).Msg("websocket read error")
			}
			return
		}

		if !c.limiter.Allow() {
			rateLimitWarnings++
			if rateLimitWarnings%100 == 1 {
				h.log.Warn().Str("client", c.ID()).Str("room", c.RoomID()).
					Int("warnings", rateLimitWarnings).Msg("rate limit exceeded")
			}
			if rateLimitWarnings > 1000 {
				h.log.Warn().Str("client", c.ID()).Msg("disconnecting client for excessive rate limit violations")
				return
			}
			continue
		}

		var msg Inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			// Malformed frames are a non-fatal no-op.
			continue
		}

		h.dispatch(c, msg)
	}
}

func (h *SessionHandler) dispatch(c *Client, msg Inbound) {
	switch msg.Type {
	case TypeCodeUpdate:
		// Write-through, last writer wins. A failed write degrades
		// durability, not live collaboration: the fan-out still carries
		// the submitted text.
		if err := h.store.SaveCode(c.RoomID(), msg.Code); err != nil {
			h.log.Warn().Err(err).Str("room", c.RoomID()).Msg("code persist failed")
		}
		h.hub.Broadcast(c.RoomID(), CodeUpdateMessage{
			Type:      "code_update",
			Code:      msg.Code,
			Timestamp: msg.Timestamp,
		}, c)

	case TypeCursorPosition:
		h.hub.Broadcast(c.RoomID(), CursorPositionMessage{
			Type:     "cursor_position",
			Position: msg.Position,
			UserID:   msg.UserID,
		}, c)

	default:
		// Unknown types are accepted and ignored.
	}
}
