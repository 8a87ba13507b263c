package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"athletepulse/internal/config"
	"athletepulse/internal/infrastructure"
)

// Handler upgrades GET /ws requests into sessions.
type Handler struct {
	hub      *Hub
	service  EventService
	opts     Options
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the upgrade handler. Origins outside allowedOrigins are
// refused unless the list holds "*".
func NewHandler(hub *Hub, service EventService, cfg config.WebSocketConfig, allowedOrigins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		hub:     hub,
		service: service,
		opts:    OptionsFromConfig(cfg),
		logger:  logger.With(slog.String("component", "websocket.handler")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// ServeHTTP upgrades the connection and starts both pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("origin", r.Header.Get("Origin")))
		return
	}

	// The request context ends when ServeHTTP returns; the session outlives it.
	ctx := context.WithoutCancel(r.Context())
	client := NewClient(h.hub, NewConnectionWrapper(conn), h.service, h.opts, infrastructure.GetTraceID(ctx), h.logger)
	h.hub.Register(ctx, client)

	go client.WritePump(ctx)
	go client.ReadPump(ctx)
}

// originChecker allows requests without an Origin header, same-host origins
// and the configured origins.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}
