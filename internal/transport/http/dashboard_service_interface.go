package http

import (
	"context"
	"io"

	"athletepulse/internal/dataprocessing"
	"athletepulse/internal/services"
	"athletepulse/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations the handlers use
type DashboardServiceInterface interface {
	Athletes(ctx context.Context) ([]string, error)
	OnAthleteSelected(ctx context.Context, source, name string) (domain.AthleteView, error)
	OnInsightsRequested(ctx context.Context, name string) (domain.InsightReport, error)
	Monthly(ctx context.Context, name string, metrics []domain.Metric) ([]domain.PeriodMean, error)
	Report(ctx context.Context) (dataprocessing.BuildReport, error)
	Reload(ctx context.Context) (dataprocessing.BuildReport, error)
	Dataset() (*dataprocessing.Dataset, error)
	Options() services.DashboardOptions
}

// ExporterInterface streams downloads
type ExporterInterface interface {
	WriteFilteredCSV(w io.Writer, ds *dataprocessing.Dataset) error
	WriteRecentGamesCSV(w io.Writer, games []domain.GameLine) error
	WriteMonthlyCSV(w io.Writer, months []domain.PeriodMean) error
	WriteAthleteReport(w io.Writer, view domain.AthleteView, report domain.InsightReport) error
}
