package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"athletepulse/pkg/contracts/domain"
)

const (
	msgLowOverall  = "The player's overall game feeling is below %s%%. Focus on improving game strategies and providing additional support."
	msgLowPhysical = "The player's physical feeling is below %s%%. Pay attention to their physical training and recovery routines."
	msgInjury      = "Recent injury recorded: %s - %s. Ensure proper medical attention and recovery plans are in place."
	msgGreatShape  = "The player is in great shape!!"
	msgNoData      = "No game data recorded for this player yet."
)

// Rules parameterizes the insight engine.
type Rules struct {
	// SatisfactionThreshold fires the low-feeling rules for scores strictly below it.
	SatisfactionThreshold float64
	MajorKeyword          string
	MinorKeyword          string
}

// DefaultRules are the dashboard's rules.
func DefaultRules() Rules {
	return Rules{
		SatisfactionThreshold: 60,
		MajorKeyword:          "Major",
		MinorKeyword:          "Minor",
	}
}

// Evaluate runs the insight rules with DefaultRules.
func Evaluate(overall, physical domain.Score, injuries []domain.Value) []domain.Insight {
	return DefaultRules().Evaluate(overall, physical, injuries)
}

// Evaluate applies the rules in fixed order: low overall feeling, low physical
// feeling, then one finding per distinct injury annotation in first-seen order.
// Every rule appends independently. An invalid score never fires. Annotations
// without either keyword produce nothing. When nothing fires the result is the
// single great-shape finding.
func (rs Rules) Evaluate(overall, physical domain.Score, injuries []domain.Value) []domain.Insight {
	var out []domain.Insight
	if overall.Valid && overall.Value < rs.SatisfactionThreshold {
		out = append(out, domain.Insight{Kind: domain.InsightLowOverall, Message: fmt.Sprintf(msgLowOverall, rs.threshold())})
	}
	if physical.Valid && physical.Value < rs.SatisfactionThreshold {
		out = append(out, domain.Insight{Kind: domain.InsightLowPhysical, Message: fmt.Sprintf(msgLowPhysical, rs.threshold())})
	}

	present := lo.Filter(injuries, func(v domain.Value, _ int) bool { return !v.IsMissing() })
	for _, injury := range lo.UniqBy(present, func(v domain.Value) string { return v.Text }) {
		switch {
		case strings.Contains(injury.Text, rs.MajorKeyword):
			out = append(out, domain.Insight{
				Kind:    domain.InsightMajorInjury,
				Message: fmt.Sprintf(msgInjury, rs.MajorKeyword, injury.Text),
			})
		case strings.Contains(injury.Text, rs.MinorKeyword):
			out = append(out, domain.Insight{
				Kind:    domain.InsightMinorInjury,
				Message: fmt.Sprintf(msgInjury, rs.MinorKeyword, injury.Text),
			})
		}
	}

	if len(out) == 0 {
		out = append(out, domain.Insight{Kind: domain.InsightGreatShape, Message: msgGreatShape})
	}
	return out
}

func (rs Rules) threshold() string {
	return strconv.FormatFloat(rs.SatisfactionThreshold, 'f', -1, 64)
}
