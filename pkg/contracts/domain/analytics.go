package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metric names a numeric column an aggregate can be computed over.
type Metric string

const (
	MetricExertionTraining Metric = "exertion_training"
	MetricExertionGame     Metric = "exertion_game"
	MetricSprintTime       Metric = "sprint_time"
	MetricSleepQuality     Metric = "sleep_quality"
	MetricFlexibility      Metric = "flexibility"
	MetricVerticalJump     Metric = "vertical_jump"
	MetricOverallFeeling   Metric = "overall_feeling"
	MetricPhysicalFeeling  Metric = "physical_feeling"
	MetricMinutesPlayed    Metric = "minutes_played"
	MetricGoals            Metric = "goals"
	MetricAssists          Metric = "assists"
)

// PhysicalMetrics are averaged for the "Physical Condition" block.
var PhysicalMetrics = []Metric{
	MetricExertionTraining,
	MetricExertionGame,
	MetricSprintTime,
	MetricSleepQuality,
	MetricFlexibility,
	MetricVerticalJump,
}

// ChartMetrics are bucketed by month for the exertion and sleep charts.
var ChartMetrics = []Metric{
	MetricExertionTraining,
	MetricExertionGame,
	MetricSleepQuality,
}

var allMetrics = map[Metric]func(AthleteRecord) Value{
	MetricExertionTraining: func(r AthleteRecord) Value { return r.ExertionTraining },
	MetricExertionGame:     func(r AthleteRecord) Value { return r.ExertionGame },
	MetricSprintTime:       func(r AthleteRecord) Value { return r.SprintTime },
	MetricSleepQuality:     func(r AthleteRecord) Value { return r.SleepQuality },
	MetricFlexibility:      func(r AthleteRecord) Value { return r.Flexibility },
	MetricVerticalJump:     func(r AthleteRecord) Value { return r.VerticalJump },
	MetricOverallFeeling:   func(r AthleteRecord) Value { return r.OverallFeeling },
	MetricPhysicalFeeling:  func(r AthleteRecord) Value { return r.PhysicalFeeling },
	MetricMinutesPlayed:    func(r AthleteRecord) Value { return r.MinutesPlayed },
	MetricGoals:            func(r AthleteRecord) Value { return r.Goals },
	MetricAssists:          func(r AthleteRecord) Value { return r.Assists },
}

// Of returns the metric's cell in a record.
func (m Metric) Of(r AthleteRecord) Value {
	if get, ok := allMetrics[m]; ok {
		return get(r)
	}
	return Missing
}

// ParseMetric resolves a metric name.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := allMetrics[m]; !ok {
		return "", fmt.Errorf("unknown metric %q", name)
	}
	return m, nil
}

// Mean is an average over the present values only. Valid is false when no value
// was present.
type Mean struct {
	Value float64
	Count int
	Valid bool
}

// MarshalJSON encodes an invalid mean as null.
func (m Mean) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// PhysicalCondition holds lifetime means of the physical metrics.
type PhysicalCondition map[Metric]Mean

// Score is a satisfaction score on a 0-100 scale.
type Score = Mean

// SatisfactionScores are the two gauges computed from recent games.
type SatisfactionScores struct {
	Overall  Score `json:"overall"`
	Physical Score `json:"physical"`
	// NoData is set when the athlete has no dated rows at all.
	NoData bool `json:"no_data"`
}

// PeriodMean is one calendar month of means.
type PeriodMean struct {
	Period time.Time       `json:"period"`
	Label  string          `json:"label"`
	Means  map[Metric]Mean `json:"means"`
	Rows   int             `json:"rows"`
}

// InsightKind classifies an insight.
type InsightKind string

const (
	InsightLowOverall  InsightKind = "low_overall_feeling"
	InsightLowPhysical InsightKind = "low_physical_feeling"
	InsightMajorInjury InsightKind = "major_injury"
	InsightMinorInjury InsightKind = "minor_injury"
	InsightGreatShape  InsightKind = "great_shape"
	// InsightNoData replaces the great shape verdict when no game is dated.
	InsightNoData      InsightKind = "no_data"
)

// Insight is one human-readable finding.
type Insight struct {
	Kind    InsightKind `json:"kind"`
	Message string      `json:"message"`
}
