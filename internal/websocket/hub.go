package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"athletepulse/internal/config"
	"athletepulse/internal/infrastructure"
)

// Hub keeps the set of live sessions.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	totalConnections int64

	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewHub creates an empty hub
func NewHub(metrics *infrastructure.Metrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		metrics: metrics,
		logger:  logger.With(slog.String("component", "websocket.hub")),
	}
}

// Register adds a client and greets it with a connection message.
func (h *Hub) Register(ctx context.Context, c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.totalConnections++
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.WebSocketOpened(ctx, 1)
	h.logger.InfoContext(ctx, "client registered",
		slog.String("client_id", c.id),
		slog.String("remote_addr", c.remoteAddr),
		slog.Int("total_clients", count))

	c.queue(ctx, TypeConnection, map[string]interface{}{
		"status":    "connected",
		"message":   "Connected to " + config.AppName,
		"client_id": c.id,
	})
}

// Unregister removes a client and closes its send queue. Unknown clients are
// ignored.
func (h *Hub) Unregister(ctx context.Context, c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.WebSocketOpened(ctx, -1)
	h.logger.InfoContext(ctx, "client unregistered",
		slog.String("client_id", c.id),
		slog.Int("total_clients", count),
		slog.Duration("connection_duration", time.Since(c.connectedAt)))
}

// Broadcast queues a message for every client and returns how many accepted it.
func (h *Hub) Broadcast(ctx context.Context, msgType string, data interface{}) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients {
		if c.queue(ctx, msgType, data) {
			delivered++
		}
	}
	h.logger.DebugContext(ctx, "broadcast sent",
		slog.String("type", msgType),
		slog.Int("delivered", delivered),
		slog.Int("clients", len(h.clients)))
	return delivered
}

// ClientCount returns the number of live sessions
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConnections returns how many sessions ever registered
func (h *Hub) TotalConnections() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConnections
}

// CloseAll closes every connection. Read pumps then unregister their clients.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
	h.logger.Info("closed websocket connections", slog.Int("clients", len(h.clients)))
}
