package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/internal/config"
	"athletepulse/internal/infrastructure"
	"athletepulse/internal/services"
	"athletepulse/internal/shared/testutil"
	"athletepulse/pkg/contracts/domain"
)

type fakeService struct{}

func (fakeService) OnAthleteSelected(_ context.Context, source, name string) (domain.AthleteView, error) {
	if name != "Sam Taylor" {
		return domain.AthleteView{}, &services.AthleteNotFoundError{Athlete: name, Suggestions: []string{"Sam Taylor"}}
	}
	return domain.AthleteView{Athlete: name, Rows: 2, HasGameData: true}, nil
}

func (fakeService) OnInsightsRequested(_ context.Context, name string) (domain.InsightReport, error) {
	if name == "Nobody" {
		return domain.InsightReport{}, services.ErrDatasetUnavailable
	}
	return domain.InsightReport{
		Athlete:  name,
		Insights: []domain.Insight{{Kind: domain.InsightGreatShape, Message: "The player is in great shape!!"}},
	}, nil
}

type received struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id"`
}

func startServer(t *testing.T, allowed []string) (*Hub, *httptest.Server) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(infrastructure.NoopMetrics(), logger)
	h := NewHandler(hub, fakeService{}, config.Default().WebSocket, allowed, logger)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		hub.CloseAll()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func connect(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn := dial(t, srv)
	msg := readMessage(t, conn)
	require.Equal(t, TypeConnection, msg.Type)
	return conn
}

func TestConnectionMessage(t *testing.T) {
	hub, srv := startServer(t, nil)
	conn := dial(t, srv)

	msg := readMessage(t, conn)
	assert.Equal(t, TypeConnection, msg.Type)
	var data map[string]string
	require.NoError(t, json.Unmarshal(msg.Data, &data))
	assert.Equal(t, "connected", data["status"])
	assert.NotEmpty(t, data["client_id"])

	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, hub.TotalConnections())
}

func TestAthleteSelected(t *testing.T) {
	_, srv := startServer(t, nil)
	conn := connect(t, srv)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeAthleteSelected, Athlete: " Sam Taylor "}))
	msg := readMessage(t, conn)
	require.Equal(t, TypeAthleteView, msg.Type)

	var view struct {
		Athlete     string `json:"athlete"`
		HasGameData bool   `json:"has_game_data"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &view))
	assert.Equal(t, "Sam Taylor", view.Athlete)
	assert.True(t, view.HasGameData)
}

func TestInsightsRequested(t *testing.T) {
	_, srv := startServer(t, nil)
	conn := connect(t, srv)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeInsightsRequested, Athlete: "Sam Taylor"}))
	msg := readMessage(t, conn)
	require.Equal(t, TypeInsights, msg.Type)

	var report struct {
		Insights []domain.Insight `json:"insights"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &report))
	require.Len(t, report.Insights, 1)
	assert.Equal(t, domain.InsightGreatShape, report.Insights[0].Kind)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		payload     string
		code        string
		suggestions []string
	}{
		{"invalid json", `{"type":`, CodeInvalidMessage, nil},
		{"unknown type", `{"type":"subscribe"}`, CodeUnknownType, nil},
		{"missing athlete", `{"type":"athlete_selected","athlete":"   "}`, CodeAthleteRequired, nil},
		{"unknown athlete", `{"type":"athlete_selected","athlete":"Sam Tailor"}`, CodeAthleteNotFound, []string{"Sam Taylor"}},
		{"dataset unavailable", `{"type":"insights_requested","athlete":"Nobody"}`, CodeDatasetUnavailable, nil},
	}

	_, srv := startServer(t, nil)
	conn := connect(t, srv)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))
			msg := readMessage(t, conn)
			require.Equal(t, TypeError, msg.Type)

			var data ErrorData
			require.NoError(t, json.Unmarshal(msg.Data, &data))
			assert.Equal(t, tt.code, data.Code)
			assert.Equal(t, tt.suggestions, data.Suggestions)
		})
	}
}

func TestHeartbeatHasNoReply(t *testing.T) {
	_, srv := startServer(t, nil)
	conn := connect(t, srv)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeHeartbeat}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeInsightsRequested, Athlete: "Sam Taylor"}))

	// The first reply answers the second message.
	msg := readMessage(t, conn)
	assert.Equal(t, TypeInsights, msg.Type)
}

func TestBroadcastAndDisconnect(t *testing.T) {
	hub, srv := startServer(t, nil)
	first := connect(t, srv)
	second := connect(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	delivered := hub.Broadcast(context.Background(), TypeDatasetUpdated, map[string]int{"athletes": 2})
	assert.Equal(t, 2, delivered)
	assert.Equal(t, TypeDatasetUpdated, readMessage(t, first).Type)
	assert.Equal(t, TypeDatasetUpdated, readMessage(t, second).Type)

	require.NoError(t, first.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		host    string
		want    bool
	}{
		{"no origin", nil, "", "localhost:8080", true},
		{"same host", nil, "http://localhost:8080", "localhost:8080", true},
		{"listed origin", []string{"http://dash.example.com/"}, "http://dash.example.com", "api:8080", true},
		{"wildcard", []string{"*"}, "http://evil.example.com", "api:8080", true},
		{"foreign origin", []string{"http://dash.example.com"}, "http://evil.example.com", "api:8080", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.allowed)(r))
		})
	}
}

func TestForeignOriginRejected(t *testing.T) {
	_, srv := startServer(t, []string{"http://dash.example.com"})
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	header := http.Header{"Origin": []string{"http://evil.example.com"}}

	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.WebSocketConfig{PingPeriod: 2 * time.Minute, PongWait: time.Minute})
	assert.Equal(t, time.Minute, opts.PongWait)
	assert.Equal(t, 54*time.Second, opts.PingPeriod)
	assert.Equal(t, config.WebSocketWriteWait, opts.WriteWait)
	assert.EqualValues(t, config.WebSocketMaxMessageSize, opts.MaxMessageSize)
}

func TestWritePumpClosesWhenQueueCloses(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub(nil, logger)
	conn := newMockConnection()
	client := NewClient(hub, conn, fakeService{}, OptionsFromConfig(config.Default().WebSocket), "trace-1", logger)
	hub.Register(context.Background(), client)

	done := make(chan struct{})
	go func() {
		client.WritePump(context.Background())
		close(done)
	}()
	hub.Unregister(context.Background(), client)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("write pump did not stop")
	}

	msgs := conn.written()
	require.Len(t, msgs, 2)
	assert.Equal(t, websocket.TextMessage, msgs[0].kind)
	assert.Contains(t, string(msgs[0].data), `"trace_id":"trace-1"`)
	assert.Equal(t, websocket.CloseMessage, msgs[1].kind)
	assert.True(t, conn.isClosed())
	assert.Equal(t, 0, hub.ClientCount())
}
