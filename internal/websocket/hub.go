package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Presence is told when a user's connections on this instance come and go.
type Presence interface {
	Connected(ctx context.Context, userID uuid.UUID)
	Disconnected(ctx context.Context, userID uuid.UUID, lastLocal bool)
}

// Hub tracks live clients on this instance.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*Client
	perUser  map[uuid.UUID]int
	presence Presence
}

// NewHub accepts a nil presence.
func NewHub(presence Presence) *Hub {
	return &Hub{
		clients:  make(map[string]*Client),
		perUser:  make(map[uuid.UUID]int),
		presence: presence,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.perUser[client.UserID]++
	h.mu.Unlock()

	if h.presence != nil {
		h.presence.Connected(ctx, client.UserID)
	}
}

// Unregister removes a client. Calling it twice for one client is a no-op.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	h.perUser[client.UserID]--
	last := h.perUser[client.UserID] <= 0
	if last {
		delete(h.perUser, client.UserID)
	}
	h.mu.Unlock()

	if h.presence != nil {
		h.presence.Disconnected(ctx, client.UserID, last)
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// OnlineMany reports which of userIDs hold a connection on this instance.
// It serves as the presence source when Redis is not configured.
func (h *Hub) OnlineMany(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make(map[uuid.UUID]bool, len(userIDs))
	for _, id := range userIDs {
		out[id] = h.perUser[id] > 0
	}
	return out, nil
}

// CloseAll closes every connection, used on shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		c.Close()
	}
}
