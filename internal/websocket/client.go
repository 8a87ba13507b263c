package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"athletepulse/internal/config"
	"athletepulse/internal/services"
	"athletepulse/pkg/contracts/domain"
)

// EventService answers the two dashboard events.
type EventService interface {
	OnAthleteSelected(ctx context.Context, source, name string) (domain.AthleteView, error)
	OnInsightsRequested(ctx context.Context, name string) (domain.InsightReport, error)
}

// Options tune keepalive and limits of a session.
type Options struct {
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// OptionsFromConfig maps the websocket config section.
func OptionsFromConfig(cfg config.WebSocketConfig) Options {
	opts := Options{
		PingPeriod:     cfg.PingPeriod,
		PongWait:       cfg.PongWait,
		WriteWait:      config.WebSocketWriteWait,
		MaxMessageSize: config.WebSocketMaxMessageSize,
		SendBuffer:     config.WebSocketSendBuffer,
	}
	if opts.PongWait <= 0 {
		opts.PongWait = config.WebSocketPongWait
	}
	if opts.PingPeriod <= 0 || opts.PingPeriod >= opts.PongWait {
		opts.PingPeriod = (opts.PongWait * 9) / 10
	}
	return opts
}

// Client is one browser session: a read pump answering events and a write
// pump draining the send queue.
type Client struct {
	hub     *Hub
	conn    Connection
	service EventService
	opts    Options

	// Buffered channel of outbound messages. Only the hub closes it.
	send chan []byte

	id          string
	traceID     string
	remoteAddr  string
	connectedAt time.Time

	logger *slog.Logger

	messagesSent     int64
	messagesReceived int64
}

// NewClient creates a session over conn
func NewClient(hub *Hub, conn Connection, service EventService, opts Options, traceID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = config.WebSocketSendBuffer
	}
	id := uuid.New().String()
	logger = logger.With(
		slog.String("component", "websocket.client"),
		slog.String("client_id", id),
	)
	return &Client{
		hub:         hub,
		conn:        conn,
		service:     service,
		opts:        opts,
		send:        make(chan []byte, opts.SendBuffer),
		id:          id,
		traceID:     traceID,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		logger:      logger,
	}
}

// ID returns the client id
func (c *Client) ID() string {
	return c.id
}

// ReadPump reads client messages until the connection fails and answers each
// one on the send queue.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.logger.InfoContext(ctx, "websocket client disconnected",
			slog.Duration("connection_duration", time.Since(c.connectedAt)),
			slog.Int64("messages_received", c.messagesReceived))
		c.hub.Unregister(ctx, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.WarnContext(ctx, "unexpected websocket close",
					slog.String("error", err.Error()))
			}
			return
		}
		c.messagesReceived++
		c.handle(ctx, message)
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.queue(ctx, TypeError, ErrorData{Code: CodeInvalidMessage, Message: "message is not valid JSON"})
		return
	}
	athlete := strings.TrimSpace(msg.Athlete)

	switch msg.Type {
	case TypeHeartbeat:
		c.logger.DebugContext(ctx, "heartbeat received")
	case TypeAthleteSelected:
		if athlete == "" {
			c.queue(ctx, TypeError, ErrorData{Code: CodeAthleteRequired, Message: "athlete is required"})
			return
		}
		view, err := c.service.OnAthleteSelected(ctx, services.SourceWebSocket, athlete)
		if err != nil {
			c.queueError(ctx, athlete, err)
			return
		}
		c.queue(ctx, TypeAthleteView, view)
	case TypeInsightsRequested:
		if athlete == "" {
			c.queue(ctx, TypeError, ErrorData{Code: CodeAthleteRequired, Message: "athlete is required"})
			return
		}
		report, err := c.service.OnInsightsRequested(ctx, athlete)
		if err != nil {
			c.queueError(ctx, athlete, err)
			return
		}
		c.queue(ctx, TypeInsights, report)
	default:
		c.queue(ctx, TypeError, ErrorData{Code: CodeUnknownType, Message: "unknown message type: " + msg.Type})
	}
}

func (c *Client) queueError(ctx context.Context, athlete string, err error) {
	data := ErrorData{Code: CodeInternal, Message: "failed to process request", Athlete: athlete}

	var notFound *services.AthleteNotFoundError
	switch {
	case errors.As(err, &notFound):
		data.Code = CodeAthleteNotFound
		data.Message = notFound.Error()
		data.Suggestions = notFound.Suggestions
	case errors.Is(err, services.ErrDatasetUnavailable):
		data.Code = CodeDatasetUnavailable
		data.Message = "dataset is not loaded"
	default:
		c.logger.ErrorContext(ctx, "websocket request failed", slog.String("error", err.Error()))
	}
	c.queue(ctx, TypeError, data)
}

// queue encodes a message and hands it to the write pump. A full queue drops
// the message.
func (c *Client) queue(ctx context.Context, msgType string, data interface{}) bool {
	payload, err := encode(msgType, data, c.traceID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode websocket message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		c.logger.WarnContext(ctx, "websocket send buffer full, message dropped",
			slog.String("type", msgType))
		return false
	}
}

// WritePump writes queued messages and pings until the send queue closes or a
// write fails.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.DebugContext(ctx, "websocket write pump stopped",
			slog.Int64("messages_sent", c.messagesSent))
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.WarnContext(ctx, "error writing websocket message",
					slog.String("error", err.Error()))
				return
			}
			c.messagesSent++
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.DebugContext(ctx, "failed to send ping",
					slog.String("error", err.Error()))
				return
			}
		}
	}
}
