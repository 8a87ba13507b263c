package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"athletepulse/internal/config"
	"athletepulse/internal/dataprocessing"
	"athletepulse/internal/infrastructure"
	"athletepulse/internal/ingest"
	"athletepulse/internal/shared/testutil"
	"athletepulse/pkg/contracts/domain"
)

type DashboardServiceSuite struct {
	suite.Suite
	svc  *DashboardService
	logs *testutil.BufferedSlogHandler
}

func (s *DashboardServiceSuite) SetupTest() {
	dir := testutil.AthleteWorkbooks(s.T(), s.T().TempDir())
	books, err := ingest.Discover(dir, ingest.Workbooks{})
	s.Require().NoError(err)
	g, p, a := books.Sources()

	logger, logs := testutil.NewTestLogger(s.T())
	s.logs = logs
	s.svc = NewDashboardService(
		ingest.NewLoader(g, p, a, logger),
		DashboardOptionsFromConfig(config.Default().Dashboard),
		nil,
		infrastructure.NoopMetrics(),
		logger,
	)
	_, err = s.svc.Reload(context.Background())
	s.Require().NoError(err)
}

func (s *DashboardServiceSuite) TestAthletes() {
	names, err := s.svc.Athletes(context.Background())
	s.Require().NoError(err)
	s.Equal([]string{"Alex Smith", "Sam Taylor"}, names)
	s.True(s.logs.ContainsMessage("dataset built"))
}

func (s *DashboardServiceSuite) TestOnAthleteSelected() {
	view, err := s.svc.OnAthleteSelected(context.Background(), SourceHTTP, "Alex Smith")
	s.Require().NoError(err)

	s.Equal("Alex Smith", view.Athlete)
	s.Equal("24", view.Profile.Age.Text)
	s.Equal(2, view.Rows)
	s.True(view.HasGameData)
	s.Require().Len(view.RecentGames, 2)
	s.Equal("2024-03-09", view.RecentGames[0].Date.Text)
	s.InDelta(45, view.Satisfaction.Overall.Value, 1e-9)
	s.InDelta(70, view.Satisfaction.Physical.Value, 1e-9)
	s.InDelta(4.1, view.PhysicalCondition[domain.MetricSprintTime].Value, 1e-9)
	s.Require().Len(view.Monthly, 1)
	s.Equal("2024-03", view.Monthly[0].Label)
}

func (s *DashboardServiceSuite) TestOnInsightsRequested() {
	report, err := s.svc.OnInsightsRequested(context.Background(), "Alex Smith")
	s.Require().NoError(err)

	kinds := make([]domain.InsightKind, 0, len(report.Insights))
	for _, in := range report.Insights {
		kinds = append(kinds, in.Kind)
	}
	s.Equal([]domain.InsightKind{domain.InsightLowOverall, domain.InsightMajorInjury}, kinds)

	report, err = s.svc.OnInsightsRequested(context.Background(), "Sam Taylor")
	s.Require().NoError(err)
	s.Require().Len(report.Insights, 1)
	s.Equal(domain.InsightGreatShape, report.Insights[0].Kind)
}

func (s *DashboardServiceSuite) TestUnknownAthleteSuggestions() {
	_, err := s.svc.OnAthleteSelected(context.Background(), SourceHTTP, "Alex Smyth")
	s.Require().Error(err)
	s.ErrorIs(err, ErrAthleteNotFound)

	var nf *AthleteNotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal("Alex Smyth", nf.Athlete)
	s.Require().NotEmpty(nf.Suggestions)
	s.Equal("Alex Smith", nf.Suggestions[0])

	_, err = s.svc.OnInsightsRequested(context.Background(), "nobody at all")
	s.ErrorIs(err, ErrAthleteNotFound)
}

func (s *DashboardServiceSuite) TestMonthly() {
	months, err := s.svc.Monthly(context.Background(), "Alex Smith", []domain.Metric{domain.MetricOverallFeeling})
	s.Require().NoError(err)
	s.Require().Len(months, 1)
	s.Equal(2, months[0].Rows)
	s.InDelta(0.45, months[0].Means[domain.MetricOverallFeeling].Value, 1e-9)

	months, err = s.svc.Monthly(context.Background(), "Sam Taylor", nil)
	s.Require().NoError(err)
	s.Require().Len(months, 1)
	s.Len(months[0].Means, len(domain.ChartMetrics))
}

func (s *DashboardServiceSuite) TestReport() {
	report, err := s.svc.Report(context.Background())
	s.Require().NoError(err)
	s.Equal(3, report.Filtered)
	s.Equal(2, report.Athletes)
	s.Contains(report.Columns, domain.ColFullName)
}

func (s *DashboardServiceSuite) TestConcurrentReadsDuringReload() {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_, err := s.svc.OnAthleteSelected(context.Background(), SourceWebSocket, "Sam Taylor")
				s.NoError(err)
			}
		}()
	}
	_, err := s.svc.Reload(context.Background())
	s.NoError(err)
	wg.Wait()
}

func (s *DashboardServiceSuite) TestOnReloadListeners() {
	var got []dataprocessing.BuildReport
	s.svc.OnReload(func(_ context.Context, r dataprocessing.BuildReport) {
		got = append(got, r)
	})
	report, err := s.svc.Reload(context.Background())
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(report.Athletes, got[0].Athletes)
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceSuite))
}

func TestDashboardService_NotLoaded(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := NewDashboardService(nil, DashboardOptions{}, nil, nil, logger)

	_, err := svc.Athletes(context.Background())
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
	_, err = svc.OnAthleteSelected(context.Background(), SourceCLI, "x")
	assert.ErrorIs(t, err, ErrDatasetUnavailable)
	_, err = svc.Reload(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{}, svc.Suggest("x"))
}

func TestDashboardService_FailedReloadKeepsDataset(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	calls := 0
	loader := TableLoaderFunc(func(ctx context.Context) (ingest.Tables, error) {
		calls++
		if calls > 1 {
			return ingest.Tables{}, errors.New("workbook locked")
		}
		return ingest.Tables{
			Global: dataprocessing.NewTable(dataprocessing.TableGlobal,
				[]string{domain.ColFirstName, domain.ColLastName, domain.ColAge},
				[][]string{{"Sam", "Taylor", "19"}}),
		}, nil
	})
	svc := NewDashboardService(loader, DashboardOptions{View: dataprocessing.DefaultViewOptions()}, nil, nil, logger)

	_, err := svc.Reload(context.Background())
	require.NoError(t, err)
	_, err = svc.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workbook locked")
	assert.True(t, logs.ContainsMessage("dataset reload failed"))

	names, err := svc.Athletes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Sam Taylor"}, names)

	view, err := svc.OnAthleteSelected(context.Background(), SourceCLI, "Sam Taylor")
	require.NoError(t, err)
	assert.False(t, view.HasGameData)
	assert.True(t, view.Satisfaction.NoData)
	assert.Empty(t, view.RecentGames)
}

func TestDashboardOptionsFromConfig(t *testing.T) {
	cfg := config.Default().Dashboard
	cfg.RecentGames = 3
	cfg.SatisfactionThreshold = 75
	cfg.SuggestionCount = 2

	opts := DashboardOptionsFromConfig(cfg)
	assert.Equal(t, 3, opts.View.RecentGames)
	assert.Equal(t, 75.0, opts.View.Rules.SatisfactionThreshold)
	assert.Equal(t, "Major", opts.View.Rules.MajorKeyword)
	assert.Equal(t, domain.ChartMetrics, opts.View.Metrics)
	assert.Equal(t, 2, opts.SuggestionCount)
}

func TestSuggest(t *testing.T) {
	names := []string{"Alex Smith", "Sam Taylor", "Alexa Smith", "Casey Brown"}

	assert.Equal(t, []string{"Alex Smith", "Alexa Smith"}, Suggest(names, "alex smith", 2))
	assert.Equal(t, []string{"Sam Taylor"}, Suggest(names, "Sam Tailor", 1))
	assert.Empty(t, Suggest(names, "zzzz", 3))
	assert.Empty(t, Suggest(names, "Alex Smith", 0))
}

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dash := NewDashboardService(nil, DashboardOptions{}, nil, nil, logger)
	hs := NewHealthService(BuildInfo{Version: "1.2.3", Commit: "abc"}, dash, nil, logger)
	ctx := context.Background()

	assert.Equal(t, StatusOK, hs.HealthCheck(ctx).Status)
	assert.Equal(t, StatusAlive, hs.LivenessCheck(ctx).Status)

	ready := hs.ReadinessCheck(ctx)
	assert.Equal(t, StatusNotReady, ready.Status)
	assert.Equal(t, StatusNotReady, ready.Services["dataset"].Status)

	dash.SetDataset(dataprocessing.Build(
		dataprocessing.NewTable(dataprocessing.TableGlobal,
			[]string{domain.ColFirstName, domain.ColLastName, domain.ColAge},
			[][]string{{"Sam", "Taylor", "19"}}),
		dataprocessing.Table{}, dataprocessing.Table{}))
	ready = hs.ReadinessCheck(ctx)
	assert.Equal(t, StatusReady, ready.Status)
	assert.Contains(t, ready.Services["dataset"].Message, "1 athletes")

	v := hs.Version()
	assert.Equal(t, "1.2.3", v["version"])
	assert.Equal(t, "abc", v["commit"])
	assert.NotContains(t, v, "build_time")
}
