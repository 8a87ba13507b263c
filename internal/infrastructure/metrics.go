package infrastructure

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Pipeline stages reported by pipeline_rows_total.
const (
	StageMerged   = "merged"
	StageFiltered = "filtered"
	StageDropped  = "dropped"
)

// Metrics holds the dashboard's instruments. A nil *Metrics records nothing.
type Metrics struct {
	PipelineBuildDuration metric.Float64Histogram
	PipelineRows          metric.Int64Counter
	DatasetReloads        metric.Int64Counter
	AthleteSelections     metric.Int64Counter
	InsightsGenerated     metric.Int64Counter
	HTTPRequestsTotal     metric.Int64Counter
	HTTPRequestDuration   metric.Float64Histogram
	WebSocketConnections  metric.Int64UpDownCounter
}

// NewMetrics creates the instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.PipelineBuildDuration, err = meter.Float64Histogram(
		"pipeline_build_duration_seconds",
		metric.WithDescription("Time spent merging, filtering and deriving the athlete dataset"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.PipelineRows, err = meter.Int64Counter(
		"pipeline_rows_total",
		metric.WithDescription("Rows produced by each pipeline stage"),
	); err != nil {
		return nil, err
	}
	if m.DatasetReloads, err = meter.Int64Counter(
		"dataset_reloads_total",
		metric.WithDescription("Dataset reloads by outcome"),
	); err != nil {
		return nil, err
	}
	if m.AthleteSelections, err = meter.Int64Counter(
		"athlete_selections_total",
		metric.WithDescription("Athlete selected events"),
	); err != nil {
		return nil, err
	}
	if m.InsightsGenerated, err = meter.Int64Counter(
		"insights_generated_total",
		metric.WithDescription("Insights produced by kind"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.WebSocketConnections, err = meter.Int64UpDownCounter(
		"websocket_connections_active",
		metric.WithDescription("Open WebSocket sessions"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

// NoopMetrics returns instruments that discard everything
func NoopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordBuild records one pipeline run
func (m *Metrics) RecordBuild(ctx context.Context, d time.Duration, merged, filtered, dropped int) {
	if m == nil {
		return
	}
	m.PipelineBuildDuration.Record(ctx, d.Seconds())
	m.PipelineRows.Add(ctx, int64(merged), metric.WithAttributes(attribute.String("stage", StageMerged)))
	m.PipelineRows.Add(ctx, int64(filtered), metric.WithAttributes(attribute.String("stage", StageFiltered)))
	m.PipelineRows.Add(ctx, int64(dropped), metric.WithAttributes(attribute.String("stage", StageDropped)))
}

// RecordReload counts a reload attempt
func (m *Metrics) RecordReload(ctx context.Context, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.DatasetReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordSelection counts an athlete selection
func (m *Metrics) RecordSelection(ctx context.Context, source string, found bool) {
	if m == nil {
		return
	}
	m.AthleteSelections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.Bool("found", found),
	))
}

// RecordInsight counts one generated insight
func (m *Metrics) RecordInsight(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.InsightsGenerated.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordHTTPRequest records a served request
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, d.Seconds(), attrs)
}

// WebSocketOpened adjusts the open session gauge
func (m *Metrics) WebSocketOpened(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.WebSocketConnections.Add(ctx, delta)
}
