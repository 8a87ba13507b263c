package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"athletepulse/internal/dataprocessing"
	apperrors "athletepulse/internal/errors"
	"athletepulse/internal/shared/testutil"
	"athletepulse/pkg/contracts/domain"
)

func testDataset() *dataprocessing.Dataset {
	global := dataprocessing.NewTable(dataprocessing.TableGlobal,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColAge, domain.ColPosition},
		[][]string{
			{"Sam", "Taylor", "19", "Defender"},
			{"Jordan", "Lee", "", ""},
		})
	physical := dataprocessing.NewTable(dataprocessing.TablePhysical,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColSprintTime},
		[][]string{{"Jordan", "Lee", "13"}})
	afterGame := dataprocessing.NewTable(dataprocessing.TableAfterGame,
		[]string{domain.ColFirstName, domain.ColLastName, domain.ColGameDate, domain.ColGameResults, domain.ColOverallFeeling, domain.ColPhysicalFeeling, domain.ColInjuries},
		[][]string{
			{"sam", "taylor", "2024-03-02", "Win", "0.9", "0.8", ""},
			{"Sam", "Taylor", "2024-04-10", "Loss", "0.5", "0.6", "Minor ankle sprain"},
		})
	return dataprocessing.Build(global, physical, afterGame)
}

func samReports(t *testing.T) (domain.AthleteView, domain.InsightReport) {
	t.Helper()
	p := testDataset().Project("Sam Taylor")
	require.False(t, p.Empty())
	opts := dataprocessing.DefaultViewOptions()
	return dataprocessing.AthleteView(p, opts), dataprocessing.InsightReport(p, opts)
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "missing BOM")
	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func newExporter(t *testing.T, dir string) *Exporter {
	logger, _ := testutil.NewTestLogger(t)
	return NewExporter(dir, logger)
}

func TestCSVWriter_Encode(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(nil)
	require.NoError(t, w.Encode(&buf, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", ""}, {"x,y", "2"}},
		BOMPrefix: true,
	}))

	assert.Equal(t, [][]string{{"a", "b"}, {"1", ""}, {"x,y", "2"}}, readCSV(t, buf.Bytes()))

	buf.Reset()
	require.NoError(t, w.Encode(&buf, WriteOptions{Records: [][]string{{"only"}}}))
	assert.Equal(t, "only\n", buf.String())
}

func TestCSVWriter_WriteCSVTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WriteCSV(path, WriteOptions{Records: [][]string{{"first"}, {"second"}}}))
	require.NoError(t, w.WriteCSV(path, WriteOptions{Records: [][]string{{"third"}}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(data))
}

func TestSaveFilteredCSV(t *testing.T) {
	dir := t.TempDir()
	ds := testDataset()

	path, err := newExporter(t, dir).SaveFilteredCSV(ds)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filtered_athletes.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records := readCSV(t, data)

	filtered := ds.Filtered()
	require.Len(t, records, filtered.Len()+1)
	assert.Equal(t, filtered.ColumnNames(), records[0])
	assert.Equal(t, domain.ColFullName, records[0][len(records[0])-1])
	for _, row := range records[1:] {
		assert.Equal(t, "Sam Taylor", row[len(row)-1])
	}
}

func TestWriteFilteredCSV_MissingCellsBlank(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, t.TempDir()).WriteFilteredCSV(&buf, testDataset()))

	records := readCSV(t, buf.Bytes())
	sprint := -1
	for i, h := range records[0] {
		if h == domain.ColSprintTime {
			sprint = i
		}
	}
	require.GreaterOrEqual(t, sprint, 0)
	for _, row := range records[1:] {
		assert.Empty(t, row[sprint])
	}
}

func TestWriteRecentGamesCSV(t *testing.T) {
	view, _ := samReports(t)
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, t.TempDir()).WriteRecentGamesCSV(&buf, view.RecentGames))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 3)
	assert.Equal(t, RecentGamesHeaders, records[0])
	assert.Equal(t, "2024-04-10", records[1][0])
	assert.Equal(t, "Loss", records[1][2])
	assert.Equal(t, "2024-03-02", records[2][0])
}

func TestWriteMonthlyCSV(t *testing.T) {
	view, _ := samReports(t)
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, t.TempDir()).WriteMonthlyCSV(&buf, view.Monthly))

	records := readCSV(t, buf.Bytes())
	assert.Equal(t, []string{"Month", "Rows", "exertion_training", "exertion_game", "sleep_quality"}, records[0])
	assert.Equal(t, []string{"2024-03", "1", "", "", ""}, records[1])
	assert.Equal(t, []string{"2024-04", "1", "", "", ""}, records[2])
}

func TestSaveAthleteCSV(t *testing.T) {
	dir := t.TempDir()
	view, _ := samReports(t)

	paths, err := newExporter(t, dir).SaveAthleteCSV(view)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "Sam_Taylor_recent_games.csv"),
		filepath.Join(dir, "Sam_Taylor_monthly.csv"),
	}, paths)
	for _, p := range paths {
		assert.FileExists(t, p)
	}
}

func TestSaveAthleteReport(t *testing.T) {
	dir := t.TempDir()
	view, report := samReports(t)

	path, err := newExporter(t, dir).SaveAthleteReport(view, report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Sam_Taylor_report.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetProfile, SheetPhysical, SheetGames, SheetMonthly, SheetInsights}, f.GetSheetList())

	profile, err := f.GetRows(SheetProfile)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Sam Taylor"}, profile[1])
	assert.Equal(t, []string{"Age", "19"}, profile[2])
	assert.Equal(t, []string{"Overall Satisfaction", "70"}, profile[7])

	games, err := f.GetRows(SheetGames)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "2024-04-10", games[1][0])

	physical, err := f.GetRows(SheetPhysical)
	require.NoError(t, err)
	require.Len(t, physical, len(domain.PhysicalMetrics)+1)
	assert.Equal(t, []string{"sprint_time", "", "0"}, physical[3])

	insights, err := f.GetRows(SheetInsights)
	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.Equal(t, string(domain.InsightMinorInjury), insights[1][0])
	assert.Contains(t, insights[1][1], "Minor ankle sprain")
}

func TestWriteAthleteReport_Stream(t *testing.T) {
	view, report := samReports(t)
	var buf bytes.Buffer
	require.NoError(t, newExporter(t, t.TempDir()).WriteAthleteReport(&buf, view, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SheetMonthly)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2024-03", rows[1][0])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestExportErrorsAreTyped(t *testing.T) {
	err := newExporter(t, t.TempDir()).WriteFilteredCSV(failingWriter{}, testDataset())
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeExport, appErr.Type)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "Sam_Taylor_report.xlsx", ReportFileName("Sam Taylor"))
	assert.Equal(t, "__x_report.xlsx", ReportFileName("../x"))
}
