package ws

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain pops every queued frame off a client's send buffer.
func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case data := <-c.send:
			out = append(out, data)
		default:
			return out
		}
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	a := newTestClient("a", "room-1")
	b := newTestClient("b", "room-1")
	c := newTestClient("c", "room-1")
	registry.Register("room-1", a)
	registry.Register("room-1", b)
	registry.Register("room-1", c)

	hub.Broadcast("room-1", UserJoinedMessage{Type: "user_joined", UsersCount: 3}, a)

	assert.Empty(t, drain(a))

	for _, recipient := range []*Client{b, c} {
		frames := drain(recipient)
		require.Len(t, frames, 1)

		var msg UserJoinedMessage
		require.NoError(t, json.Unmarshal(frames[0], &msg))
		assert.Equal(t, "user_joined", msg.Type)
		assert.Equal(t, 3, msg.UsersCount)
	}
}

func TestBroadcastWithoutExclude(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	a := newTestClient("a", "room-1")
	b := newTestClient("b", "room-1")
	registry.Register("room-1", a)
	registry.Register("room-1", b)

	hub.Broadcast("room-1", UserLeftMessage{Type: "user_left", UsersCount: 2}, nil)

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestBroadcastToAbsentRoomIsNoop(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	// Nothing to deliver to, nothing to panic over.
	hub.Broadcast("ghost-room", ErrorMessage{Type: "error", Message: "x"}, nil)
}

func TestBroadcastSkipsFailedRecipient(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	closed := newTestClient("closed", "room-1")
	closed.Close()
	healthy := newTestClient("healthy", "room-1")
	registry.Register("room-1", closed)
	registry.Register("room-1", healthy)

	hub.Broadcast("room-1", UserJoinedMessage{Type: "user_joined", UsersCount: 2}, nil)

	// The failed recipient stays registered; teardown belongs to its own
	// read loop, not the hub.
	assert.Equal(t, 2, registry.Count("room-1"))
	assert.Len(t, drain(healthy), 1)
}

func TestBroadcastDoesNotCrossRooms(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	a := newTestClient("a", "room-1")
	b := newTestClient("b", "room-2")
	registry.Register("room-1", a)
	registry.Register("room-2", b)

	hub.Broadcast("room-1", UserJoinedMessage{Type: "user_joined", UsersCount: 1}, nil)

	assert.Len(t, drain(a), 1)
	assert.Empty(t, drain(b))
}

func TestSendTo(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	c := newTestClient("a", "room-1")
	err := hub.SendTo(c, InitMessage{Type: "init", Code: "x=1", Language: "python", UsersCount: 1})
	require.NoError(t, err)

	frames := drain(c)
	require.Len(t, frames, 1)

	var msg InitMessage
	require.NoError(t, json.Unmarshal(frames[0], &msg))
	assert.Equal(t, "init", msg.Type)
	assert.Equal(t, "x=1", msg.Code)
	assert.Equal(t, "python", msg.Language)
	assert.Equal(t, 1, msg.UsersCount)
}

func TestSendToClosedClientSurfacesError(t *testing.T) {
	registry := NewRegistry()
	hub := NewHub(registry, zerolog.Nop())

	c := newTestClient("a", "room-1")
	c.Close()

	err := hub.SendTo(c, ErrorMessage{Type: "error", Message: "Room not found"})
	assert.ErrorIs(t, err, ErrClientClosed)
}

func TestClientSendBufferFull(t *testing.T) {
	c := newTestClient("a", "room-1")

	for i := 0; i < sendBufferSize; i++ {
		require.NoError(t, c.Send([]byte("x")))
	}
	assert.ErrorIs(t, c.Send([]byte("overflow")), ErrSendBufferFull)
}
