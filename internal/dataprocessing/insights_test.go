package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/pkg/contracts/domain"
)

func score(v float64) domain.Score {
	return domain.Score{Value: v, Count: 1, Valid: true}
}

func kinds(in []domain.Insight) []domain.InsightKind {
	out := make([]domain.InsightKind, 0, len(in))
	for _, i := range in {
		out = append(out, i.Kind)
	}
	return out
}

func TestEvaluateOrder(t *testing.T) {
	got := Evaluate(score(40), score(90), []domain.Value{
		domain.Missing,
		domain.Text("Major knee injury"),
		domain.Text("Major knee injury"),
	})

	require.Len(t, got, 2)
	assert.Equal(t, []domain.InsightKind{domain.InsightLowOverall, domain.InsightMajorInjury}, kinds(got))
	assert.Equal(t, "The player's overall game feeling is below 60%. Focus on improving game strategies and providing additional support.", got[0].Message)
	assert.Equal(t, "Recent injury recorded: Major - Major knee injury. Ensure proper medical attention and recovery plans are in place.", got[1].Message)
}

func TestEvaluateAllRules(t *testing.T) {
	got := Evaluate(score(10), score(20), []domain.Value{
		domain.Text("Minor bruise"),
		domain.Text("Major and Minor"),
	})

	assert.Equal(t, []domain.InsightKind{
		domain.InsightLowOverall,
		domain.InsightLowPhysical,
		domain.InsightMinorInjury,
		domain.InsightMajorInjury,
	}, kinds(got))
}

func TestEvaluateGreatShapeFallback(t *testing.T) {
	got := Evaluate(score(60), score(85), nil)

	require.Len(t, got, 1)
	assert.Equal(t, domain.InsightGreatShape, got[0].Kind)
	assert.Equal(t, "The player is in great shape!!", got[0].Message)
}

func TestEvaluateIgnoresUnclassifiedInjuries(t *testing.T) {
	got := Evaluate(score(80), score(80), []domain.Value{domain.Text("Cramp")})

	assert.Equal(t, []domain.InsightKind{domain.InsightGreatShape}, kinds(got))
}

func TestEvaluateInvalidScoresNeverFire(t *testing.T) {
	got := Evaluate(domain.Score{}, domain.Score{}, nil)

	assert.Equal(t, []domain.InsightKind{domain.InsightGreatShape}, kinds(got))
}

func TestRulesCustomThreshold(t *testing.T) {
	rules := DefaultRules()
	rules.SatisfactionThreshold = 72.5

	got := rules.Evaluate(score(70), score(80), nil)

	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "below 72.5%")
}
