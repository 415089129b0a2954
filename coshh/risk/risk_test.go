package risk

import (
	"SafetyAgents/entity"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 15, Score(5, 3))
	assert.Equal(t, 25, Score(9, 7))
	assert.Equal(t, 0, Score(-1, 4))
}

func TestThresholdTablesAtBoundary(t *testing.T) {
	score := Score(5, 3)
	assert.Equal(t, entity.RiskVeryHigh, TaskRiskLevel(score))
	assert.Equal(t, entity.RiskHigh, RiskRating(score))
}

func TestTaskRiskLevel(t *testing.T) {
	tests := map[int]string{
		0:  entity.RiskLow,
		4:  entity.RiskLow,
		5:  entity.RiskMedium,
		9:  entity.RiskMedium,
		10: entity.RiskHigh,
		14: entity.RiskHigh,
		15: entity.RiskVeryHigh,
		25: entity.RiskVeryHigh,
	}
	for score, want := range tests {
		assert.Equal(t, want, TaskRiskLevel(score), "score %d", score)
	}
}

func TestRiskRating(t *testing.T) {
	tests := map[int]string{
		0:  entity.RiskLow,
		5:  entity.RiskLow,
		6:  entity.RiskMedium,
		12: entity.RiskMedium,
		13: entity.RiskHigh,
		20: entity.RiskHigh,
		21: entity.RiskVeryHigh,
	}
	for score, want := range tests {
		assert.Equal(t, want, RiskRating(score), "score %d", score)
	}
}

func TestAssess_SeverityGatesLikelihood(t *testing.T) {
	sev := entity.RouteSeverities{SkinEye: 2}
	est := entity.LikelihoodEstimate{
		Inhalation: entity.RouteLikelihood{Likelihood: 5, AdditionalControlsNeeded: []string{"LEV"}},
		SkinEye:    entity.RouteLikelihood{Likelihood: 4},
	}

	ra := Assess("Acetone", entity.SubjectSubstance, sev, est)

	inh := ra.Route(entity.RouteInhalation)
	require.NotNil(t, inh)
	assert.Zero(t, inh.Likelihood)
	assert.Zero(t, inh.Score)

	skin := ra.Route(entity.RouteSkinEye)
	require.NotNil(t, skin)
	assert.Equal(t, 8, skin.Score)
	assert.Equal(t, 8, ra.OverallScore)
	assert.Equal(t, entity.RiskMedium, ra.OverallLevel)
	assert.Empty(t, ra.AdditionalControlsRequired)
	assert.Equal(t, entity.EstimateAdvisor, ra.EstimateSource)
}

func TestAssess_AdditionalControlsOnlyFromHighRoutes(t *testing.T) {
	sev := entity.RouteSeverities{Inhalation: 4, SkinEye: 2}
	est := entity.LikelihoodEstimate{
		Inhalation: entity.RouteLikelihood{Likelihood: 3, AdditionalControlsNeeded: []string{"Fit LEV at the mixing station"}},
		SkinEye:    entity.RouteLikelihood{Likelihood: 4, AdditionalControlsNeeded: []string{"Nitrile gauntlets"}},
	}

	ra := Assess("Solvent", entity.SubjectSubstance, sev, est)

	assert.Equal(t, 12, ra.OverallScore)
	assert.Equal(t, entity.RiskHigh, ra.OverallLevel)
	assert.Equal(t, []string{"Fit LEV at the mixing station"}, ra.AdditionalControlsRequired)
}

func TestAssess_GenericControlWhenAdvisorGivesNone(t *testing.T) {
	sev := entity.RouteSeverities{Inhalation: 5}
	ra := Assess("TDI", entity.SubjectSubstance, sev, DefaultLikelihood(sev))

	assert.Equal(t, 15, ra.OverallScore)
	assert.Equal(t, entity.EstimateDefault, ra.EstimateSource)
	require.Len(t, ra.AdditionalControlsRequired, 1)
	assert.Contains(t, ra.AdditionalControlsRequired[0], "inhalation")
}

func TestDefaultLikelihood(t *testing.T) {
	none := DefaultLikelihood(entity.RouteSeverities{})
	assert.Zero(t, none.Inhalation.Likelihood)
	assert.Equal(t, 2, none.Ingestion.Likelihood)
	assert.Equal(t, 3, none.SkinEye.Likelihood)

	some := DefaultLikelihood(entity.RouteSeverities{Inhalation: 1})
	assert.Equal(t, 3, some.Inhalation.Likelihood)
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 12, OverallScore([]entity.RiskAssessment{{OverallScore: 4}, {OverallScore: 12}}))
	assert.Zero(t, OverallScore(nil))
}
