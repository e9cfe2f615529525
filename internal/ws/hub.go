package ws

import (
	"encoding/json"
	"sync"

	"crafting_arena/internal/domain"
	"crafting_arena/internal/logger"
)

// Hub fans arena events out to every connected feed client. Clients are
// read-only subscribers, slow ones are dropped rather than allowed to
// block the broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ClientCount returns the number of connected feed clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues a raw message for every client. A client whose send
// buffer is full is disconnected.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// PublishGameEvent broadcasts an arena lifecycle event.
func (h *Hub) PublishGameEvent(event string, game *domain.Game) {
	msg, err := json.Marshal(GameEvent{Type: event, Game: game})
	if err != nil {
		logger.Error("marshal game event", "event", event, "error", err)
		return
	}
	h.Broadcast(msg)
}
