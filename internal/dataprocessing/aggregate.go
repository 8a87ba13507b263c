package dataprocessing

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"athletepulse/pkg/contracts/domain"
)

// DefaultRecentGames is how many of the latest games feed the satisfaction gauges.
const DefaultRecentGames = 5

// MeanOf averages a metric over the records, skipping missing and non-numeric cells.
func MeanOf(records []domain.AthleteRecord, m domain.Metric) domain.Mean {
	var sum float64
	var n int
	for _, r := range records {
		if f, ok := m.Of(r).Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return domain.Mean{}
	}
	return domain.Mean{Value: sum / float64(n), Count: n, Valid: true}
}

// LifetimeMeans averages the physical metrics over every row of an athlete,
// dated or not.
func LifetimeMeans(records []domain.AthleteRecord) domain.PhysicalCondition {
	out := make(domain.PhysicalCondition, len(domain.PhysicalMetrics))
	for _, m := range domain.PhysicalMetrics {
		out[m] = MeanOf(records, m)
	}
	return out
}

// RecentGames returns the n most recently dated rows. Dated rows come first,
// newest first, ties in original order; undated rows follow in original order.
// With fewer than n rows all rows are returned.
func RecentGames(records []domain.AthleteRecord, n int) []domain.AthleteRecord {
	sorted := append([]domain.AthleteRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.HasDate() && b.HasDate():
			return a.GameDate.After(*b.GameDate)
		case a.HasDate() != b.HasDate():
			return a.HasDate()
		default:
			return false
		}
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Satisfaction averages overall and physical feeling over the given rows,
// excluding missing values, and scales both to 0-100.
func Satisfaction(recent []domain.AthleteRecord) domain.SatisfactionScores {
	scale := func(m domain.Mean) domain.Score {
		if m.Valid {
			m.Value *= 100
		}
		return m
	}
	return domain.SatisfactionScores{
		Overall:  scale(MeanOf(recent, domain.MetricOverallFeeling)),
		Physical: scale(MeanOf(recent, domain.MetricPhysicalFeeling)),
	}
}

// AthleteSatisfaction computes the gauges from an athlete's n most recent
// games. Athletes without any dated row have no satisfaction data.
func AthleteSatisfaction(records []domain.AthleteRecord, n int) domain.SatisfactionScores {
	if !lo.SomeBy(records, domain.AthleteRecord.HasDate) {
		return domain.SatisfactionScores{NoData: true}
	}
	return Satisfaction(RecentGames(records, n))
}

// MonthlyMeans buckets dated rows by calendar month and averages each metric.
// Months between the first and last dated month with no rows are included with
// invalid means. Undated rows are left out.
func MonthlyMeans(records []domain.AthleteRecord, metrics ...domain.Metric) []domain.PeriodMean {
	if len(metrics) == 0 {
		metrics = domain.ChartMetrics
	}
	dated := lo.Filter(records, func(r domain.AthleteRecord, _ int) bool { return r.HasDate() })
	if len(dated) == 0 {
		return nil
	}

	buckets := make(map[time.Time][]domain.AthleteRecord)
	first, last := monthOf(*dated[0].GameDate), monthOf(*dated[0].GameDate)
	for _, r := range dated {
		m := monthOf(*r.GameDate)
		buckets[m] = append(buckets[m], r)
		if m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
	}

	var out []domain.PeriodMean
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		rows := buckets[m]
		pm := domain.PeriodMean{
			Period: m,
			Label:  m.Format("2006-01"),
			Means:  make(map[domain.Metric]domain.Mean, len(metrics)),
			Rows:   len(rows),
		}
		for _, metric := range metrics {
			pm.Means[metric] = MeanOf(rows, metric)
		}
		out = append(out, pm)
	}
	return out
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
