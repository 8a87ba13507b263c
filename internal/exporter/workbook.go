package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"athletepulse/pkg/contracts/domain"
)

// Sheet names of the athlete report workbook.
const (
	SheetProfile  = "Profile"
	SheetPhysical = "Physical Condition"
	SheetGames    = "Recent Games"
	SheetMonthly  = "Monthly"
	SheetInsights = "Insights"
)

func buildAthleteWorkbook(view domain.AthleteView, report domain.InsightReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetProfile); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetPhysical, SheetGames, SheetMonthly, SheetInsights} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	p := view.Profile
	sat := view.Satisfaction
	profile := [][]interface{}{
		{"Field", "Value"},
		{"Name", p.FullName},
		{"Age", cellValue(p.Age)},
		{"Height (cm)", cellValue(p.Height)},
		{"Weight (kg)", cellValue(p.Weight)},
		{"Foot", labelCell(p.Foot)},
		{"Position", labelCell(p.Position)},
		{"Overall Satisfaction", meanCell(sat.Overall)},
		{"Physical Satisfaction", meanCell(sat.Physical)},
	}

	physical := [][]interface{}{{"Metric", "Mean", "Samples"}}
	for _, m := range domain.PhysicalMetrics {
		mean := view.PhysicalCondition[m]
		physical = append(physical, []interface{}{string(m), meanCell(mean), mean.Count})
	}

	games := [][]interface{}{toRow(RecentGamesHeaders)}
	for _, g := range view.RecentGames {
		games = append(games, []interface{}{
			labelCell(g.Date),
			cellValue(g.MinutesPlayed),
			labelCell(g.Result),
			cellValue(g.Goals),
			cellValue(g.Assists),
			cellValue(g.FoulsCommitted),
			cellValue(g.FoulsReceived),
		})
	}

	metrics := monthlyMetrics(view.Monthly)
	monthlyHeader := []interface{}{"Month", "Rows"}
	for _, m := range metrics {
		monthlyHeader = append(monthlyHeader, string(m))
	}
	monthly := [][]interface{}{monthlyHeader}
	for _, pm := range view.Monthly {
		row := []interface{}{pm.Label, pm.Rows}
		for _, m := range metrics {
			row = append(row, meanCell(pm.Means[m]))
		}
		monthly = append(monthly, row)
	}

	insights := [][]interface{}{{"Kind", "Message"}}
	for _, in := range report.Insights {
		insights = append(insights, []interface{}{string(in.Kind), in.Message})
	}

	for sheet, rows := range map[string][][]interface{}{
		SheetProfile:  profile,
		SheetPhysical: physical,
		SheetGames:    games,
		SheetMonthly:  monthly,
		SheetInsights: insights,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeAthleteWorkbook(w io.Writer, view domain.AthleteView, report domain.InsightReport) error {
	f, err := buildAthleteWorkbook(view, report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func saveAthleteWorkbook(path string, view domain.AthleteView, report domain.InsightReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := buildAthleteWorkbook(view, report)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// monthlyMetrics lists the metrics present in the buckets, in chart order
// first and any others after.
func monthlyMetrics(months []domain.PeriodMean) []domain.Metric {
	present := make(map[domain.Metric]bool)
	for _, pm := range months {
		for m := range pm.Means {
			present[m] = true
		}
	}
	var out []domain.Metric
	for _, m := range domain.ChartMetrics {
		if present[m] {
			out = append(out, m)
			delete(present, m)
		}
	}
	for _, m := range domain.PhysicalMetrics {
		if present[m] {
			out = append(out, m)
			delete(present, m)
		}
	}
	for _, m := range []domain.Metric{domain.MetricOverallFeeling, domain.MetricPhysicalFeeling, domain.MetricMinutesPlayed, domain.MetricGoals, domain.MetricAssists} {
		if present[m] {
			out = append(out, m)
		}
	}
	return out
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
