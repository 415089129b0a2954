// Package risk scores exposure routes as severity times likelihood and
// classifies scores into risk bands.
package risk

import (
	"SafetyAgents/entity"
	"fmt"
)

const (
	maxFactor = 5

	// AdditionalControlsThreshold is the route score from which further controls are required.
	AdditionalControlsThreshold = 10
)

// Score returns severity*likelihood with both factors clamped to 0..5.
func Score(severity, likelihood int) int {
	return clamp(severity) * clamp(likelihood)
}

// TaskRiskLevel bands a per-route or per-hazard task score.
func TaskRiskLevel(score int) string {
	switch {
	case score >= 15:
		return entity.RiskVeryHigh
	case score >= 10:
		return entity.RiskHigh
	case score >= 5:
		return entity.RiskMedium
	default:
		return entity.RiskLow
	}
}

// RiskRating bands the overall score of an assembled assessment.
// Its boundaries differ from TaskRiskLevel and both are kept.
func RiskRating(score int) string {
	switch {
	case score <= 5:
		return entity.RiskLow
	case score <= 12:
		return entity.RiskMedium
	case score <= 20:
		return entity.RiskHigh
	default:
		return entity.RiskVeryHigh
	}
}

// DefaultLikelihood is the conservative estimate used when the advisor is
// unavailable or its answer cannot be parsed.
func DefaultLikelihood(sev entity.RouteSeverities) entity.LikelihoodEstimate {
	inhalation := 0
	if sev.Inhalation > 0 {
		inhalation = 3
	}
	const rationale = "Default estimate"
	return entity.LikelihoodEstimate{
		Inhalation: entity.RouteLikelihood{Likelihood: inhalation, Rationale: rationale},
		Ingestion:  entity.RouteLikelihood{Likelihood: 2, Rationale: rationale},
		SkinEye:    entity.RouteLikelihood{Likelihood: 3, Rationale: rationale},
		Other:      entity.RouteLikelihood{Likelihood: 2, Rationale: rationale},
		Source:     entity.EstimateDefault,
	}
}

// Assess combines severities and a likelihood estimate into a risk assessment.
// A route with severity 0 always scores 0, whatever the estimate says.
func Assess(subject, subjectType string, sev entity.RouteSeverities, est entity.LikelihoodEstimate) entity.RiskAssessment {
	ra := entity.RiskAssessment{
		Subject:        subject,
		SubjectType:    subjectType,
		Routes:         make([]entity.RouteRisk, 0, len(entity.Routes)),
		EstimateSource: est.Source,
	}
	if ra.EstimateSource == "" {
		ra.EstimateSource = entity.EstimateAdvisor
	}

	seen := make(map[string]bool)
	for _, route := range entity.Routes {
		severity := clamp(sev.Get(route))
		l := est.Get(route)
		likelihood := clamp(l.Likelihood)
		if severity == 0 {
			likelihood = 0
		}
		score := severity * likelihood

		ra.Routes = append(ra.Routes, entity.RouteRisk{
			Route:      route,
			Severity:   severity,
			Likelihood: likelihood,
			Score:      score,
			Level:      TaskRiskLevel(score),
			Rationale:  l.Rationale,
		})
		ra.OverallScore = max(ra.OverallScore, score)

		if score < AdditionalControlsThreshold {
			continue
		}
		needed := l.AdditionalControlsNeeded
		if len(needed) == 0 {
			needed = []string{fmt.Sprintf("Review and improve controls for %s exposure (score %d)", routeLabel(route), score)}
		}
		for _, c := range needed {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			ra.AdditionalControlsRequired = append(ra.AdditionalControlsRequired, c)
		}
	}
	ra.OverallLevel = TaskRiskLevel(ra.OverallScore)

	return ra
}

// OverallScore is the highest overall score across assessments.
func OverallScore(assessments []entity.RiskAssessment) int {
	best := 0
	for _, a := range assessments {
		best = max(best, a.OverallScore)
	}
	return best
}

func routeLabel(route string) string {
	switch route {
	case entity.RouteSkinEye:
		return "skin/eye"
	default:
		return route
	}
}

func clamp(v int) int {
	return min(max(v, 0), maxFactor)
}
