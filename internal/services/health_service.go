package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"athletepulse/internal/dataprocessing"
)

// Health states.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// DatasetProvider exposes the current dataset.
type DatasetProvider interface {
	Dataset() (*dataprocessing.Dataset, error)
}

// ClientCounter reports open WebSocket sessions.
type ClientCounter interface {
	ClientCount() int
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	Commit    string
}

// HealthService provides health check functionality
type HealthService struct {
	build     BuildInfo
	datasets  DatasetProvider
	clients   ClientCounter
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service. clients may be nil.
func NewHealthService(build BuildInfo, datasets DatasetProvider, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		build:     build,
		datasets:  datasets,
		clients:   clients,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.build.Version,
	}
}

// ReadinessCheck is ready once a dataset has been built
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.build.Version,
		Services: map[string]ServiceHealth{
			"dataset":   hs.checkDataset(),
			"websocket": hs.checkWebSocket(),
		},
	}
	for _, sh := range status.Services {
		if sh.Status != StatusReady {
			status.Status = StatusNotReady
			break
		}
	}
	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "readiness check failed",
			slog.String("dataset", status.Services["dataset"].Message))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.build.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.build.Version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
	if hs.build.BuildTime != "" {
		result["build_time"] = hs.build.BuildTime
	}
	if hs.build.Commit != "" {
		result["commit"] = hs.build.Commit
	}
	return result
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.datasets == nil {
		return ServiceHealth{Status: StatusNotReady, Message: "no dataset provider"}
	}
	ds, err := hs.datasets.Dataset()
	if err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	r := ds.Report()
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d athletes, %d rows, built %s", r.Athletes, r.Filtered, r.BuiltAt.Format(time.RFC3339)),
	}
}

func (hs *HealthService) checkWebSocket() ServiceHealth {
	if hs.clients == nil {
		return ServiceHealth{Status: StatusReady}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d clients", hs.clients.ClientCount()),
	}
}
