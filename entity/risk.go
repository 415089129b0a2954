package entity

// Risk levels shared by both risk-band tables.
const (
	RiskLow      = "Low"
	RiskMedium   = "Medium"
	RiskHigh     = "High"
	RiskVeryHigh = "Very High"
)

type RouteRisk struct {
	Route      string `json:"route" bson:"route"`
	Severity   int    `json:"severity" bson:"severity"`
	Likelihood int    `json:"likelihood" bson:"likelihood"`
	Score      int    `json:"score" bson:"score"`
	Level      string `json:"level" bson:"level"`
	Rationale  string `json:"rationale,omitempty" bson:"rationale,omitempty"`
}

// RiskAssessment is the scored risk of one substance or process hazard.
type RiskAssessment struct {
	Subject                    string      `json:"subject" bson:"subject"`
	SubjectType                string      `json:"subject_type" bson:"subject_type"`
	Routes                     []RouteRisk `json:"routes" bson:"routes"`
	OverallScore               int         `json:"overall_score" bson:"overall_score"`
	OverallLevel               string      `json:"overall_level" bson:"overall_level"`
	AdditionalControlsRequired []string    `json:"additional_controls_required,omitempty" bson:"additional_controls_required,omitempty"`
	EstimateSource             string      `json:"estimate_source" bson:"estimate_source"`
}

// Route returns the risk of one route, or nil.
func (r *RiskAssessment) Route(route string) *RouteRisk {
	for i := range r.Routes {
		if r.Routes[i].Route == route {
			return &r.Routes[i]
		}
	}
	return nil
}

// Subject types of risk assessments.
const (
	SubjectSubstance = "substance"
	SubjectProcess   = "process"
)

// Estimate sources.
const (
	EstimateAdvisor = "advisor"
	EstimateDefault = "default"
)

// RouteLikelihood is the estimation capability's answer for one route.
type RouteLikelihood struct {
	Likelihood               int      `json:"likelihood"`
	Rationale                string   `json:"rationale"`
	AdditionalControlsNeeded []string `json:"additional_controls_needed"`
}

type LikelihoodEstimate struct {
	Inhalation RouteLikelihood `json:"inhalation"`
	Ingestion  RouteLikelihood `json:"ingestion"`
	SkinEye    RouteLikelihood `json:"skin_eye"`
	Other      RouteLikelihood `json:"other"`
	Source     string          `json:"-"`
}

// Get returns the likelihood entry of one route.
func (e LikelihoodEstimate) Get(route string) RouteLikelihood {
	switch route {
	case RouteInhalation:
		return e.Inhalation
	case RouteIngestion:
		return e.Ingestion
	case RouteSkinEye:
		return e.SkinEye
	case RouteOther:
		return e.Other
	}
	return RouteLikelihood{}
}

// LikelihoodRequest is the context handed to the likelihood estimation capability.
type LikelihoodRequest struct {
	Subject          string          `json:"subject"`
	SubjectType      string          `json:"subject_type"`
	HazardTypes      []string        `json:"hazard_types"`
	Appearance       string          `json:"appearance,omitempty"`
	SubstanceForm    string          `json:"substance_form,omitempty"`
	Severities       RouteSeverities `json:"severities"`
	TaskDescription  string          `json:"task_description"`
	Quantity         string          `json:"quantity,omitempty"`
	Frequency        string          `json:"frequency,omitempty"`
	Duration         string          `json:"duration,omitempty"`
	Location         string          `json:"location,omitempty"`
	Ventilation      string          `json:"ventilation,omitempty"`
	ConfinedSpace    bool            `json:"confined_space"`
	Temperature      string          `json:"temperature,omitempty"`
	WorkerCount      int             `json:"worker_count"`
	ExposureRoutes   []string        `json:"exposure_routes,omitempty"`
	ExistingControls string          `json:"existing_controls,omitempty"`
}
