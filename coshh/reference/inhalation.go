package reference

import (
	"SafetyAgents/entity"
	"strings"
)

// InhalationKeywords mark a hazard as inhalation-class.
var InhalationKeywords = []string{"respiratory", "inhalation", "vapour", "dust", "fume", "gas", "mist", "aerosol"}

// IsInhalationHazard reports whether text contains an inhalation keyword.
func IsInhalationHazard(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range InhalationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SubstanceHasInhalationHazard checks hazard types, hazard classes and the reference
// descriptions of the substance's H-codes.
func SubstanceHasInhalationHazard(s *entity.SubstanceRecord) bool {
	for _, h := range s.Hazards {
		if IsInhalationHazard(h.Type) || IsInhalationHazard(h.HazardClass) {
			return true
		}
		if st, ok := HazardStatementFor(h.Code); ok && IsInhalationHazard(st.Description) {
			return true
		}
	}
	return false
}

// ProcessHasInhalationHazard checks the name, category and classification of a process hazard.
func ProcessHasInhalationHazard(p *entity.ProcessGeneratedHazard) bool {
	if IsInhalationHazard(p.Name) || IsInhalationHazard(p.Category) {
		return true
	}
	for _, t := range p.HazardTypes() {
		if IsInhalationHazard(t) {
			return true
		}
	}
	return false
}
