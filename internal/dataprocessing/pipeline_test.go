package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/pkg/contracts/domain"
)

func buildFixture(t *testing.T) *Dataset {
	t.Helper()
	return Build(globalTable(), physicalTable(), afterGameTable())
}

func TestBuild(t *testing.T) {
	ds := buildFixture(t)
	report := ds.Report()

	assert.Equal(t, 7, report.Merged)
	assert.Equal(t, 6, report.Filtered)
	// jordan has physical data only and no tracked column.
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, []string{"Alex Smith", "Sam Taylor", "Casey Brown"}, ds.Athletes())
	assert.Equal(t, 3, report.Athletes)
	assert.Equal(t, domain.ColFullName, report.Columns[len(report.Columns)-1])
	assert.False(t, report.BuiltAt.IsZero())
}

func TestDatasetAccessorsReturnCopies(t *testing.T) {
	ds := buildFixture(t)

	filtered := ds.Filtered()
	filtered.Rows[0][0] = domain.Text("mutated")
	names := ds.Athletes()
	names[0] = "mutated"

	assert.Equal(t, "alex", ds.Filtered().Cell(0, domain.ColFirstName).Text)
	assert.Equal(t, "Alex Smith", ds.Athletes()[0])
	assert.Equal(t, 7, ds.Merged().Len())
}

func TestDatasetProject(t *testing.T) {
	ds := buildFixture(t)

	p := ds.Project("Alex Smith")
	require.Len(t, p.Records, 3)
	assert.False(t, p.HasDates())
	assert.Equal(t, "Midfielder", p.Profile().Position.Text)

	assert.True(t, ds.Project("alex smith").Empty(), "selection is exact")
	assert.True(t, ds.Project("Nobody").Empty())
}

func TestAthleteView(t *testing.T) {
	ds := buildFixture(t)

	view := AthleteView(ds.Project("Alex Smith"), DefaultViewOptions())

	assert.Equal(t, 3, view.Rows)
	assert.False(t, view.HasGameData)
	assert.True(t, view.Satisfaction.NoData)
	assert.Empty(t, view.RecentGames)
	assert.Nil(t, view.Monthly)
	assert.InDelta(t, 11.0, view.PhysicalCondition[domain.MetricSprintTime].Value, 1e-9)
	assert.InDelta(t, 6.0, view.PhysicalCondition[domain.MetricExertionTraining].Value, 1e-9)

	sam := AthleteView(ds.Project("Sam Taylor"), DefaultViewOptions())

	require.True(t, sam.HasGameData)
	require.Len(t, sam.RecentGames, 2)
	assert.Equal(t, "2024-04-10", sam.RecentGames[0].Date.Text)
	assert.InDelta(t, 70.0, sam.Satisfaction.Overall.Value, 1e-9)
	assert.InDelta(t, 70.0, sam.Satisfaction.Physical.Value, 1e-9)
	require.Len(t, sam.Monthly, 2)
	assert.Equal(t, "2024-03", sam.Monthly[0].Label)
}

func TestInsightReport(t *testing.T) {
	ds := buildFixture(t)

	sam := InsightReport(ds.Project("Sam Taylor"), DefaultViewOptions())
	assert.Equal(t, []domain.InsightKind{domain.InsightMinorInjury}, kinds(sam.Insights))

	alex := InsightReport(ds.Project("Alex Smith"), ViewOptions{})
	assert.Equal(t, []domain.InsightKind{domain.InsightNoData}, kinds(alex.Insights))
	assert.True(t, alex.Satisfaction.NoData)
}

func TestInsightReportWithoutDatedGames(t *testing.T) {
	undated := Projection{Athlete: "Jordan Lee", Records: []domain.AthleteRecord{{}}}
	report := InsightReport(undated, DefaultViewOptions())
	require.Len(t, report.Insights, 1)
	assert.Equal(t, domain.InsightNoData, report.Insights[0].Kind)

	injured := Projection{Athlete: "Jordan Lee", Records: []domain.AthleteRecord{
		{Injuries: domain.LabelOf(domain.Text("Major ACL tear"))},
	}}
	report = InsightReport(injured, DefaultViewOptions())
	assert.Equal(t, []domain.InsightKind{domain.InsightMajorInjury}, kinds(report.Insights))
}
