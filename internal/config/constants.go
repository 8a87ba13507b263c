package config

import "time"

// Application constants
const (
	AppName    = "athletepulse"
	AppVersion = "1.0.0"

	// Rate limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultLoadTimeout  = 30 * time.Second
	WebSocketPingPeriod = 54 * time.Second
	WebSocketPongWait   = 60 * time.Second
	WebSocketWriteWait  = 10 * time.Second

	// WebSocket limits
	WebSocketMaxMessageSize = 4096
	WebSocketSendBuffer     = 16

	// Export file names
	FilteredExportName = "filtered_athletes.csv"
	ReportExportSuffix = "_report.xlsx"

	// HTTP headers
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Build information, overridden with -ldflags at build time.
var (
	Version   = AppVersion
	BuildTime = "unknown"
	Commit    = "unknown"
)
