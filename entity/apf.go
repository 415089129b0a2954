package entity

// APFData holds the answers captured in the respiratory protection step.
type APFData struct {
	MeasuredConcentration string `json:"measured_concentration,omitempty" bson:"measured_concentration,omitempty"`
	CurrentRPE            string `json:"current_rpe,omitempty" bson:"current_rpe,omitempty"`
}

// RPEClass is a type of respiratory protective equipment and its assigned protection factor.
type RPEClass struct {
	Name string `json:"name"`
	APF  int    `json:"apf"`
}

// APFRequirement is the respiratory protection outcome for one inhalation hazard.
type APFRequirement struct {
	Subject            string  `json:"subject" bson:"subject"`
	WEL                string  `json:"wel,omitempty" bson:"wel,omitempty"`
	Concentration      float64 `json:"concentration,omitempty" bson:"concentration,omitempty"`
	ConcentrationKnown bool    `json:"concentration_known" bson:"concentration_known"`
	RequiredAPF        int     `json:"required_apf" bson:"required_apf"`
	RecommendedRPE     string  `json:"recommended_rpe" bson:"recommended_rpe"`
	RecommendedAPF     int     `json:"recommended_apf" bson:"recommended_apf"`
	CurrentRPE         string  `json:"current_rpe,omitempty" bson:"current_rpe,omitempty"`
	CurrentRPEAdequate bool    `json:"current_rpe_adequate" bson:"current_rpe_adequate"`
	Notes              string  `json:"notes,omitempty" bson:"notes,omitempty"`
}
