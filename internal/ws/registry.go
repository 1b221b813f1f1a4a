package ws

import "sync"

// Registry tracks the live connections of each room. A room key exists only
// while it has at least one connection.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[*Client]struct{})}
}

func (r *Registry) Register(roomID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients, ok := r.rooms[roomID]
	if !ok {
		clients = make(map[*Client]struct{})
		r.rooms[roomID] = clients
	}
	clients[c] = struct{}{}
}

// Deregister removes the connection. Removing an absent connection is a
// no-op. The room key is deleted the moment its set empties.
func (r *Registry) Deregister(roomID string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clients, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(r.rooms, roomID)
	}
}

func (r *Registry) Count(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Snapshot returns a copy of the room's connections, minus exclude, so
// delivery can proceed without holding the lock.
func (r *Registry) Snapshot(roomID string, exclude *Client) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]*Client, 0, len(clients))
	for c := range clients {
		if c == exclude {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ActiveRooms maps each live room to its connection count.
func (r *Registry) ActiveRooms() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.rooms))
	for id, clients := range r.rooms {
		out[id] = len(clients)
	}
	return out
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

func (r *Registry) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, clients := range r.rooms {
		total += len(clients)
	}
	return total
}
