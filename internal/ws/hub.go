package ws

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Hub fans messages out to a room's connections. Delivery is best effort:
// no acknowledgment, no retry, no cross-recipient ordering.
type Hub struct {
	registry *Registry
	log      zerolog.Logger
}

func NewHub(registry *Registry, log zerolog.Logger) *Hub {
	return &Hub{registry: registry, log: log}
}

// Broadcast serializes msg once and delivers it to every connection in the
// room except exclude. The recipient list is snapshotted under the registry
// lock; delivery happens outside it, so a slow recipient never blocks
// register/deregister. A failed recipient is logged and skipped, never
// deregistered here: that connection's own read loop owns its teardown.
func (h *Hub) Broadcast(roomID string, msg any, exclude *Client) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("marshal broadcast frame")
		return
	}

	for _, c := range h.registry.Snapshot(roomID, exclude) {
		if err := c.Send(data); err != nil {
			h.log.Warn().Err(err).Str("room", roomID).Str("client", c.ID()).Msg("broadcast delivery failed")
		}
	}
}

// SendTo delivers msg to a single connection. Used for the init snapshot,
// where there is no fallback recipient, so the error is surfaced.
func (h *Hub) SendTo(c *Client, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.Send(data)
}
