package coshh

import (
	"SafetyAgents/coshh/reference"
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	defaultAPF     = 10
	defaultHighAPF = 20
)

var number = regexp.MustCompile(`\d+(?:\.\d+)?`)

var apfFields = []FieldSchema{
	{
		Name:   "measured_concentration",
		Prompt: "Do you have a measured airborne concentration (same units as the WEL, e.g. mg/m3)? Give the number, or reply unknown.",
		Value:  func(s *entity.WorkflowState) string { return s.APFData.MeasuredConcentration },
		Apply:  func(s *entity.WorkflowState, v string) { s.APFData.MeasuredConcentration = v },
	},
	{
		Name:   "current_rpe",
		Prompt: "What respiratory protection is used now (e.g. FFP3, half mask with P3 filters, powered hood), or none?",
		Value:  func(s *entity.WorkflowState) string { return s.APFData.CurrentRPE },
		Apply:  func(s *entity.WorkflowState, v string) { s.APFData.CurrentRPE = v },
	},
}

func newAPFStep() *fieldStep {
	return &fieldStep{
		id:     StepAPFCalculation,
		intro:  "Some hazards can be breathed in, so let's check respiratory protection.",
		fields: apfFields,
		done: func(m workflow.Messenger, state *entity.WorkflowState) error {
			state.APFRequirements = APFRequirements(state)
			return m.SendText(apfSummary(state.APFRequirements))
		},
	}
}

// ParseAmount returns the first number in text.
func ParseAmount(text string) (float64, bool) {
	v, err := strconv.ParseFloat(number.FindString(text), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// RequiredAPF is concentration / WEL rounded up. With no usable measurement it
// is the minimum for the inhalation risk level.
func RequiredAPF(concentration, wel float64, inhalationLevel string) (int, bool) {
	if concentration > 0 && wel > 0 {
		return int(math.Ceil(concentration / wel)), true
	}
	if inhalationLevel == entity.RiskHigh || inhalationLevel == entity.RiskVeryHigh {
		return defaultHighAPF, false
	}
	return defaultAPF, false
}

// APFRequirements computes the respiratory protection outcome of every inhalation hazard.
func APFRequirements(state *entity.WorkflowState) []entity.APFRequirement {
	concentration, measured := ParseAmount(state.APFData.MeasuredConcentration)
	currentAPF := reference.APFForDescription(state.APFData.CurrentRPE)

	levels := make(map[string]string)
	for _, ra := range state.RiskAssessments {
		if r := ra.Route(entity.RouteInhalation); r != nil {
			levels[ra.Subject] = r.Level
		}
	}

	var out []entity.APFRequirement
	add := func(name, wel string) {
		welValue, _ := ParseAmount(wel)
		conc := 0.0
		if measured {
			conc = concentration
		}
		required, known := RequiredAPF(conc, welValue, levels[name])
		req := entity.APFRequirement{
			Subject:            name,
			WEL:                wel,
			Concentration:      conc,
			ConcentrationKnown: known,
			RequiredAPF:        required,
			CurrentRPE:         state.APFData.CurrentRPE,
		}

		switch {
		case known && required <= 1:
			req.Notes = "Measured exposure is below the WEL; RPE is not required on exposure grounds but may still be needed for sensitisers."
		case !known:
			req.Notes = "No usable measurement against a WEL; minimum APF applied for the inhalation risk level. Arrange air monitoring."
		}
		if required > 1 || !known {
			rpe := reference.SelectRPE(required)
			req.RecommendedRPE = rpe.Name
			req.RecommendedAPF = rpe.APF
		}
		req.CurrentRPEAdequate = currentAPF > 0 && currentAPF >= required
		out = append(out, req)
	}

	for i := range state.SubstanceRecords {
		r := &state.SubstanceRecords[i]
		if !reference.SubstanceHasInhalationHazard(r) {
			continue
		}
		wel := ""
		if r.ExposureLimits != nil {
			wel = strings.TrimSpace(r.ExposureLimits.LongTerm + " " + r.ExposureLimits.Unit)
		}
		add(r.ChemicalName, wel)
	}
	for i := range state.ProcessHazards {
		p := &state.ProcessHazards[i]
		if reference.ProcessHasInhalationHazard(p) {
			add(p.Name, p.WEL)
		}
	}
	return out
}

func apfSummary(reqs []entity.APFRequirement) string {
	var sb strings.Builder
	sb.WriteString("Respiratory protection:\n")
	for _, r := range reqs {
		sb.WriteString(fmt.Sprintf("- %s: required APF %d", r.Subject, r.RequiredAPF))
		if r.RecommendedRPE != "" {
			sb.WriteString(fmt.Sprintf(", recommended %s (APF %d)", r.RecommendedRPE, r.RecommendedAPF))
		}
		if r.CurrentRPE != "" {
			if r.CurrentRPEAdequate {
				sb.WriteString("; current RPE is adequate")
			} else {
				sb.WriteString("; current RPE is NOT adequate")
			}
		}
		sb.WriteString("\n")
		if r.Notes != "" {
			sb.WriteString("  " + r.Notes + "\n")
		}
	}
	return sb.String()
}
