package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event types broadcast after inventory mutations.
const (
	EventItemCreated  = "item_created"
	EventItemAdjusted = "item_adjusted"
	EventItemDeleted  = "item_deleted"
)

// Event tells other open household browsers that the inventory changed and
// which item to refresh. Clients respond by re-fetching the list.
type Event struct {
	Type     string `json:"type"`
	ItemID   int64  `json:"item_id,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// Hub maintains the set of active WebSocket clients and fans events out to
// them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends an event to all connected clients. A client with a full
// buffer misses the event rather than blocking the mutation path; its next
// full reload catches it up.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
