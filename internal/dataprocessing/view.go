package dataprocessing

import (
	"athletepulse/pkg/contracts/domain"
)

// ViewOptions tune the athlete view.
type ViewOptions struct {
	RecentGames int
	Metrics     []domain.Metric
	Rules       Rules
}

// DefaultViewOptions match the dashboard.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		RecentGames: DefaultRecentGames,
		Metrics:     domain.ChartMetrics,
		Rules:       DefaultRules(),
	}
}

func (o ViewOptions) recent() int {
	if o.RecentGames <= 0 {
		return DefaultRecentGames
	}
	return o.RecentGames
}

// AthleteView runs the aggregator over a projection.
func AthleteView(p Projection, opts ViewOptions) domain.AthleteView {
	view := domain.AthleteView{
		Athlete:           p.Athlete,
		Profile:           p.Profile(),
		PhysicalCondition: LifetimeMeans(p.Records),
		Rows:              len(p.Records),
		HasGameData:       p.HasDates(),
		RecentGames:       []domain.GameLine{},
	}
	view.Satisfaction = AthleteSatisfaction(p.Records, opts.recent())
	if view.HasGameData {
		for _, r := range RecentGames(p.Records, opts.recent()) {
			view.RecentGames = append(view.RecentGames, domain.GameLineOf(r))
		}
		view.Monthly = MonthlyMeans(p.Records, opts.Metrics...)
	}
	return view
}

// InsightReport runs the aggregator and the insight engine over a projection.
// Without any dated game the fallback verdict is no_data, not great_shape.
func InsightReport(p Projection, opts ViewOptions) domain.InsightReport {
	sat := AthleteSatisfaction(p.Records, opts.recent())
	rules := opts.Rules
	if rules.MajorKeyword == "" || rules.MinorKeyword == "" {
		rules = DefaultRules()
	}
	insights := rules.Evaluate(sat.Overall, sat.Physical, p.Injuries())
	if sat.NoData && len(insights) == 1 && insights[0].Kind == domain.InsightGreatShape {
		insights = []domain.Insight{{Kind: domain.InsightNoData, Message: msgNoData}}
	}
	return domain.InsightReport{
		Athlete:      p.Athlete,
		Satisfaction: sat,
		Insights:     insights,
	}
}
