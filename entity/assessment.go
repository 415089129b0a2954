package entity

import "time"

// AssessmentOutput is the body of a persisted COSHH assessment.
type AssessmentOutput struct {
	HazardSource                   HazardSource                    `json:"hazard_source" bson:"hazard_source"`
	SubstanceRecords               []SubstanceRecord               `json:"substance_records" bson:"substance_records"`
	ProcessHazards                 []ProcessGeneratedHazard        `json:"process_hazards" bson:"process_hazards"`
	UsageData                      UsageData                       `json:"usage_data" bson:"usage_data"`
	EnvironmentData                EnvironmentData                 `json:"environment_data" bson:"environment_data"`
	WorkerData                     WorkerData                      `json:"worker_data" bson:"worker_data"`
	RiskAssessments                []RiskAssessment                `json:"risk_assessments" bson:"risk_assessments"`
	OverallRiskScore               int                             `json:"overall_risk_score" bson:"overall_risk_score"`
	OverallRiskRating              string                          `json:"overall_risk_rating" bson:"overall_risk_rating"`
	ControlMeasures                []ControlMeasure                `json:"control_measures" bson:"control_measures"`
	ControlNotes                   []string                        `json:"control_notes,omitempty" bson:"control_notes,omitempty"`
	HealthSurveillanceRequirements []HealthSurveillanceRequirement `json:"health_surveillance_requirements" bson:"health_surveillance_requirements"`
	APFRequirements                []APFRequirement                `json:"apf_requirements" bson:"apf_requirements"`
	Corrections                    []string                        `json:"corrections,omitempty" bson:"corrections,omitempty"`
	ReviewNotes                    []string                        `json:"review_notes,omitempty" bson:"review_notes,omitempty"`
}

// Assessment is the immutable record produced when a workflow completes.
type Assessment struct {
	ID           string           `json:"id" bson:"id"`
	Title        string           `json:"title" bson:"title"`
	HiredAgentID string           `json:"hired_agent_id" bson:"hired_agent_id"`
	UserID       string           `json:"user_id" bson:"user_id"`
	CompanyID    string           `json:"company_id,omitempty" bson:"company_id,omitempty"`
	OutputData   AssessmentOutput `json:"output_data" bson:"output_data"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at"`
}
