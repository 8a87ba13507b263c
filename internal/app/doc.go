// Package app wires the athlete dashboard server together.
//
// NewApplication resolves paths, initializes OpenTelemetry and metrics, builds
// the dashboard service over the configured sources and mounts the HTTP API,
// the /ws event channel and /metrics on a chi router. Run serves until SIGINT
// or SIGTERM and then shuts the server, open WebSocket sessions and telemetry
// down in that order.
//
// Errors during initialization are returned to the caller; the package never
// calls os.Exit.
package app
