package websocket

import (
	"encoding/json"
	"time"
)

// Client to server message types
const (
	TypeAthleteSelected   = "athlete_selected"
	TypeInsightsRequested = "insights_requested"
	TypeHeartbeat         = "heartbeat"
)

// Server to client message types
const (
	TypeConnection     = "connection"
	TypeAthleteView    = "athlete_view"
	TypeInsights       = "insights"
	TypeError          = "error"
	TypeDatasetUpdated = "dataset_updated"
)

// Error codes carried in error messages
const (
	CodeInvalidMessage     = "INVALID_MESSAGE"
	CodeUnknownType        = "UNKNOWN_TYPE"
	CodeAthleteRequired    = "ATHLETE_REQUIRED"
	CodeAthleteNotFound    = "ATHLETE_NOT_FOUND"
	CodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ClientMessage is a request sent by the browser.
type ClientMessage struct {
	Type    string `json:"type"`
	Athlete string `json:"athlete,omitempty"`
}

// Envelope wraps every server message.
type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
	TraceID   string      `json:"trace_id,omitempty"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Athlete     string   `json:"athlete,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func encode(msgType string, data interface{}, traceID string) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		TraceID:   traceID,
	})
}
