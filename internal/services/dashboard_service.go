package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"athletepulse/internal/config"
	"athletepulse/internal/dataprocessing"
	"athletepulse/internal/infrastructure"
	"athletepulse/internal/ingest"
	"athletepulse/pkg/contracts/domain"
)

// SuggestionThreshold is the minimum Jaro-Winkler similarity of a suggested name.
const SuggestionThreshold = 0.7

// Selection sources recorded with athlete_selections_total.
const (
	SourceHTTP      = "http"
	SourceWebSocket = "websocket"
	SourceCLI       = "cli"
)

// TableLoader produces the three raw tables.
type TableLoader interface {
	LoadAll(ctx context.Context) (ingest.Tables, error)
}

// TableLoaderFunc adapts a function to TableLoader.
type TableLoaderFunc func(ctx context.Context) (ingest.Tables, error)

// LoadAll calls f.
func (f TableLoaderFunc) LoadAll(ctx context.Context) (ingest.Tables, error) {
	return f(ctx)
}

// DashboardOptions tune the views and suggestions.
type DashboardOptions struct {
	View            dataprocessing.ViewOptions
	SuggestionCount int
}

// DashboardOptionsFromConfig maps the dashboard config section.
func DashboardOptionsFromConfig(cfg config.DashboardConfig) DashboardOptions {
	opts := dataprocessing.DefaultViewOptions()
	opts.RecentGames = cfg.RecentGames
	opts.Rules = dataprocessing.Rules{
		SatisfactionThreshold: cfg.SatisfactionThreshold,
		MajorKeyword:          cfg.MajorKeyword,
		MinorKeyword:          cfg.MinorKeyword,
	}
	return DashboardOptions{View: opts, SuggestionCount: cfg.SuggestionCount}
}

// ReloadListener is told about every successful reload.
type ReloadListener func(ctx context.Context, report dataprocessing.BuildReport)

// DashboardService answers athlete selections over an immutable dataset.
// Readers never lock; Reload swaps the dataset pointer.
type DashboardService struct {
	loader  TableLoader
	opts    DashboardOptions
	dataset atomic.Pointer[dataprocessing.Dataset]
	// reloadMu serializes reloads, not reads. It also guards listeners.
	reloadMu  sync.Mutex
	listeners []ReloadListener

	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	logger  *slog.Logger
}

// NewDashboardService creates the service. Call Reload before serving.
func NewDashboardService(loader TableLoader, opts DashboardOptions, tracer trace.Tracer, metrics *infrastructure.Metrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.InstrumentationName)
	}
	return &DashboardService{
		loader:  loader,
		opts:    opts,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("component", "dashboard_service")),
	}
}

// Reload ingests the sources, rebuilds the dataset and swaps it in. On failure
// the previous dataset keeps serving.
func (s *DashboardService) Reload(ctx context.Context) (dataprocessing.BuildReport, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := s.tracer.Start(ctx, "dashboard.reload")
	defer span.End()

	report, err := s.reload(ctx)
	s.metrics.RecordReload(ctx, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "dataset reload failed", slog.String("error", err.Error()))
		return dataprocessing.BuildReport{}, err
	}
	for _, fn := range s.listeners {
		fn(ctx, report)
	}
	return report, nil
}

// OnReload registers fn to run after each successful Reload.
func (s *DashboardService) OnReload(fn ReloadListener) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *DashboardService) reload(ctx context.Context) (dataprocessing.BuildReport, error) {
	if s.loader == nil {
		return dataprocessing.BuildReport{}, fmt.Errorf("no table loader configured")
	}
	tables, err := s.loader.LoadAll(ctx)
	if err != nil {
		return dataprocessing.BuildReport{}, fmt.Errorf("failed to load tables: %w", err)
	}
	ds := s.build(ctx, tables)
	s.dataset.Store(ds)
	return ds.Report(), nil
}

// SetDataset installs an already built dataset.
func (s *DashboardService) SetDataset(ds *dataprocessing.Dataset) {
	s.dataset.Store(ds)
}

func (s *DashboardService) build(ctx context.Context, tables ingest.Tables) *dataprocessing.Dataset {
	_, span := s.tracer.Start(ctx, "pipeline.build")
	defer span.End()

	start := time.Now()
	ds := dataprocessing.Build(tables.Global, tables.Physical, tables.AfterGame)
	report := ds.Report()
	s.metrics.RecordBuild(ctx, time.Since(start), report.Merged, report.Filtered, report.Dropped)

	span.SetAttributes(
		attribute.Int("pipeline.merged_rows", report.Merged),
		attribute.Int("pipeline.filtered_rows", report.Filtered),
		attribute.Int("pipeline.athletes", report.Athletes),
	)
	for _, c := range report.Collisions {
		s.logger.WarnContext(ctx, "column collision renamed",
			slog.String("column", c.Column),
			slog.String("left", c.LeftName),
			slog.String("right", c.RightName))
	}
	s.logger.InfoContext(ctx, "dataset built",
		slog.Int("merged_rows", report.Merged),
		slog.Int("filtered_rows", report.Filtered),
		slog.Int("dropped_rows", report.Dropped),
		slog.Int("athletes", report.Athletes),
		slog.Int("collisions", len(report.Collisions)),
		slog.Duration("duration", time.Since(start)))
	return ds
}

// Dataset returns the current dataset.
func (s *DashboardService) Dataset() (*dataprocessing.Dataset, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return nil, ErrDatasetUnavailable
	}
	return ds, nil
}

// Options returns the view options in effect.
func (s *DashboardService) Options() DashboardOptions {
	return s.opts
}

// Report returns the build summary of the current dataset.
func (s *DashboardService) Report(ctx context.Context) (dataprocessing.BuildReport, error) {
	ds, err := s.Dataset()
	if err != nil {
		return dataprocessing.BuildReport{}, err
	}
	return ds.Report(), nil
}

// Athletes lists the selectable athletes.
func (s *DashboardService) Athletes(ctx context.Context) ([]string, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return ds.Athletes(), nil
}

// OnAthleteSelected computes the athlete view.
func (s *DashboardService) OnAthleteSelected(ctx context.Context, source, name string) (domain.AthleteView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.athlete_selected",
		trace.WithAttributes(attribute.String("athlete", name), attribute.String("source", source)))
	defer span.End()

	p, err := s.project(ctx, name)
	s.metrics.RecordSelection(ctx, source, err == nil)
	if err != nil {
		return domain.AthleteView{}, err
	}
	view := dataprocessing.AthleteView(p, s.opts.View)

	s.logger.DebugContext(ctx, "athlete selected",
		slog.String("athlete", name),
		slog.Int("rows", view.Rows),
		slog.Bool("has_game_data", view.HasGameData))
	return view, nil
}

// OnInsightsRequested runs the insight rules for an athlete.
func (s *DashboardService) OnInsightsRequested(ctx context.Context, name string) (domain.InsightReport, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.insights_requested",
		trace.WithAttributes(attribute.String("athlete", name)))
	defer span.End()

	p, err := s.project(ctx, name)
	if err != nil {
		return domain.InsightReport{}, err
	}
	report := dataprocessing.InsightReport(p, s.opts.View)
	for _, in := range report.Insights {
		s.metrics.RecordInsight(ctx, string(in.Kind))
	}
	span.SetAttributes(attribute.Int("insights", len(report.Insights)))
	return report, nil
}

// Monthly buckets an athlete's dated rows for the given metrics. No metrics
// means the chart metrics.
func (s *DashboardService) Monthly(ctx context.Context, name string, metrics []domain.Metric) ([]domain.PeriodMean, error) {
	p, err := s.project(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(metrics) == 0 {
		metrics = s.opts.View.Metrics
	}
	months := dataprocessing.MonthlyMeans(p.Records, metrics...)
	if months == nil {
		months = []domain.PeriodMean{}
	}
	return months, nil
}

func (s *DashboardService) project(ctx context.Context, name string) (dataprocessing.Projection, error) {
	ds, err := s.Dataset()
	if err != nil {
		return dataprocessing.Projection{}, err
	}
	p := ds.Project(name)
	if p.Empty() {
		err := &AthleteNotFoundError{Athlete: name, Suggestions: s.suggest(ds.Athletes(), name)}
		infrastructure.RecordError(ctx, err)
		return p, err
	}
	return p, nil
}

// Suggest returns up to the configured number of known names closest to name.
func (s *DashboardService) Suggest(name string) []string {
	ds, err := s.Dataset()
	if err != nil {
		return []string{}
	}
	return s.suggest(ds.Athletes(), name)
}

func (s *DashboardService) suggest(athletes []string, name string) []string {
	return Suggest(athletes, name, s.opts.SuggestionCount)
}

// Suggest ranks candidates by case-insensitive Jaro-Winkler similarity to
// name, best first, ties in candidate order. Candidates under
// SuggestionThreshold are left out.
func Suggest(candidates []string, name string, n int) []string {
	out := []string{}
	if n <= 0 {
		return out
	}
	type scored struct {
		name  string
		score float64
	}
	target := strings.ToLower(strings.TrimSpace(name))
	var ranked []scored
	for _, c := range candidates {
		score := matchr.JaroWinkler(strings.ToLower(c), target, false)
		if score >= SuggestionThreshold {
			ranked = append(ranked, scored{c, score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	for i := 0; i < len(ranked) && i < n; i++ {
		out = append(out, ranked[i].name)
	}
	return out
}
