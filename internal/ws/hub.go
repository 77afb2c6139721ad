package ws

import (
	"log/slog"
	"sync"

	"github.com/lcastelli/motdepasse-server/internal/model"
	"github.com/lcastelli/motdepasse-server/internal/protocol"
	"github.com/lcastelli/motdepasse-server/internal/session"
)

// Hub fans room events out to the websocket clients of one room. Each
// frame is encoded once and the bytes are shared across recipients.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.PlayerID]*Client
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.PlayerID]*Client),
		logger:  logger,
	}
}

// Broadcast sends an event to every connected client in the room
func (h *Hub) Broadcast(event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode broadcast",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.trySend(frame)
	}
}

// Unicast sends an event to a single player. Unknown recipients are
// dropped silently; the player may have just disconnected.
func (h *Hub) Unicast(playerID model.PlayerID, event string, payload any) {
	frame, err := protocol.Encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode unicast",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
		return
	}

	h.mu.RLock()
	c, ok := h.clients[playerID]
	h.mu.RUnlock()
	if ok {
		c.trySend(frame)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.playerID] = c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] == c {
		delete(h.clients, c.playerID)
	}
}

var _ session.Broadcaster = (*Hub)(nil)
