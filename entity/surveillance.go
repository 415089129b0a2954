package entity

// HealthSurveillanceRequirement describes mandatory or recommended surveillance for a substance.
type HealthSurveillanceRequirement struct {
	Substance  string   `json:"substance" bson:"substance"`
	CasNumbers []string `json:"cas_numbers,omitempty" bson:"cas_numbers,omitempty"`
	Mandatory  bool     `json:"mandatory" bson:"mandatory"`
	Frequency  string   `json:"frequency" bson:"frequency"`
	Methods    []string `json:"methods" bson:"methods"`
	LegalBasis string   `json:"legal_basis" bson:"legal_basis"`
	// MatchedFor is the substance or process hazard name the requirement was found for.
	MatchedFor string `json:"matched_for,omitempty" bson:"matched_for,omitempty"`
}
