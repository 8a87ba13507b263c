package exporter

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"athletepulse/internal/config"
	"athletepulse/internal/dataprocessing"
	apperrors "athletepulse/internal/errors"
	"athletepulse/pkg/contracts/domain"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// RecentGamesHeaders are the columns of the recent game performance table.
var RecentGamesHeaders = []string{
	"Date", "Minutes Played", "Result", "Goals Scored", "Assists", "Fouls Committed", "Fouls Received",
}

// Exporter writes dashboard exports into a directory
type Exporter struct {
	dir    string
	csv    *CSVWriter
	logger *slog.Logger
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{dir: dir, csv: NewCSVWriter(logger), logger: logger}
}

// WriteFilteredCSV streams the filtered table, header first, in table order
func (e *Exporter) WriteFilteredCSV(w io.Writer, ds *dataprocessing.Dataset) error {
	if err := e.csv.Encode(w, tableOptions(ds.Filtered())); err != nil {
		return apperrors.NewExportError(FormatCSV, err)
	}
	return nil
}

// SaveFilteredCSV writes the filtered table to the export directory
func (e *Exporter) SaveFilteredCSV(ds *dataprocessing.Dataset) (string, error) {
	path := filepath.Join(e.dir, config.FilteredExportName)
	if err := e.csv.WriteCSV(path, tableOptions(ds.Filtered())); err != nil {
		return "", apperrors.NewExportError(FormatCSV, err)
	}
	return path, nil
}

// WriteRecentGamesCSV streams the recent game performance table
func (e *Exporter) WriteRecentGamesCSV(w io.Writer, games []domain.GameLine) error {
	if err := e.csv.Encode(w, recentGamesOptions(games)); err != nil {
		return apperrors.NewExportError(FormatCSV, err)
	}
	return nil
}

// WriteMonthlyCSV streams monthly means, one row per month. Months without
// a present value for a metric leave its field blank.
func (e *Exporter) WriteMonthlyCSV(w io.Writer, months []domain.PeriodMean) error {
	if err := e.csv.Encode(w, monthlyOptions(months)); err != nil {
		return apperrors.NewExportError(FormatCSV, err)
	}
	return nil
}

// SaveAthleteCSV writes an athlete's recent games and monthly means next to
// each other in the export directory and returns both paths.
func (e *Exporter) SaveAthleteCSV(view domain.AthleteView) ([]string, error) {
	base := config.SafeFileName(view.Athlete)
	files := []struct {
		name string
		opts WriteOptions
	}{
		{base + "_recent_games.csv", recentGamesOptions(view.RecentGames)},
		{base + "_monthly.csv", monthlyOptions(view.Monthly)},
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(e.dir, f.name)
		if err := e.csv.WriteCSV(path, f.opts); err != nil {
			return paths, apperrors.NewExportError(FormatCSV, err).WithContext("athlete", view.Athlete)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteAthleteReport streams the athlete workbook
func (e *Exporter) WriteAthleteReport(w io.Writer, view domain.AthleteView, report domain.InsightReport) error {
	if err := writeAthleteWorkbook(w, view, report); err != nil {
		return apperrors.NewExportError(FormatXLSX, err).WithContext("athlete", view.Athlete)
	}
	return nil
}

// SaveAthleteReport writes the athlete workbook to the export directory
func (e *Exporter) SaveAthleteReport(view domain.AthleteView, report domain.InsightReport) (string, error) {
	path := filepath.Join(e.dir, ReportFileName(view.Athlete))
	if err := saveAthleteWorkbook(path, view, report); err != nil {
		return "", apperrors.NewExportError(FormatXLSX, err).WithContext("athlete", view.Athlete)
	}
	e.logger.Info("athlete report written",
		slog.String("athlete", view.Athlete),
		slog.String("path", path))
	return path, nil
}

// ReportFileName is the workbook name for an athlete
func ReportFileName(athlete string) string {
	return config.SafeFileName(athlete) + config.ReportExportSuffix
}

func tableOptions(t dataprocessing.Table) WriteOptions {
	records := make([][]string, 0, t.Len())
	for i := range t.Rows {
		records = append(records, t.Strings(i))
	}
	return WriteOptions{Headers: t.ColumnNames(), Records: records, BOMPrefix: true}
}

func recentGamesOptions(games []domain.GameLine) WriteOptions {
	records := make([][]string, 0, len(games))
	for _, g := range games {
		records = append(records, gameLineStrings(g))
	}
	return WriteOptions{Headers: RecentGamesHeaders, Records: records, BOMPrefix: true}
}

func monthlyOptions(months []domain.PeriodMean) WriteOptions {
	metrics := monthlyMetrics(months)
	headers := []string{"Month", "Rows"}
	for _, m := range metrics {
		headers = append(headers, string(m))
	}
	records := make([][]string, 0, len(months))
	for _, pm := range months {
		row := []string{pm.Label, strconv.Itoa(pm.Rows)}
		for _, m := range metrics {
			row = append(row, formatMean(pm.Means[m]))
		}
		records = append(records, row)
	}
	return WriteOptions{Headers: headers, Records: records, BOMPrefix: true}
}

func gameLineStrings(g domain.GameLine) []string {
	return []string{
		g.Date.String(),
		g.MinutesPlayed.String(),
		g.Result.String(),
		g.Goals.String(),
		g.Assists.String(),
		g.FoulsCommitted.String(),
		g.FoulsReceived.String(),
	}
}
