package entity

// Exposure routes used by severity scores and risk assessments.
const (
	RouteInhalation = "inhalation"
	RouteIngestion  = "ingestion"
	RouteSkinEye    = "skin_eye"
	RouteOther      = "other"
)

// Routes lists exposure routes in reporting order.
var Routes = []string{RouteInhalation, RouteIngestion, RouteSkinEye, RouteOther}

// RouteSeverities holds a 0-5 severity per exposure route.
type RouteSeverities struct {
	Inhalation int `json:"inhalation" bson:"inhalation" yaml:"inhalation"`
	Ingestion  int `json:"ingestion" bson:"ingestion" yaml:"ingestion"`
	SkinEye    int `json:"skin_eye" bson:"skin_eye" yaml:"skin_eye"`
	Other      int `json:"other" bson:"other" yaml:"other"`
}

// Get returns the severity of one route.
func (r RouteSeverities) Get(route string) int {
	switch route {
	case RouteInhalation:
		return r.Inhalation
	case RouteIngestion:
		return r.Ingestion
	case RouteSkinEye:
		return r.SkinEye
	case RouteOther:
		return r.Other
	}
	return 0
}

// Max keeps the larger value per route.
func (r RouteSeverities) Max(o RouteSeverities) RouteSeverities {
	return RouteSeverities{
		Inhalation: max(r.Inhalation, o.Inhalation),
		Ingestion:  max(r.Ingestion, o.Ingestion),
		SkinEye:    max(r.SkinEye, o.SkinEye),
		Other:      max(r.Other, o.Other),
	}
}

// HazardStatement is a reference H-code entry.
type HazardStatement struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Severity    RouteSeverities `json:"severity"`
	SignalWord  string          `json:"signal_word"`
}

// Statement types of precautionary statements.
const (
	StatementGeneral    = "General"
	StatementPrevention = "Prevention"
	StatementResponse   = "Response"
	StatementStorage    = "Storage"
	StatementDisposal   = "Disposal"
)

// RelatesTo maps a precautionary statement to COSHH document sections.
type RelatesTo struct {
	Ventilation       bool `json:"ventilation,omitempty"`
	PPE               bool `json:"ppe,omitempty"`
	FirstAidInhaled   bool `json:"first_aid_inhaled,omitempty"`
	FirstAidSkin      bool `json:"first_aid_skin,omitempty"`
	FirstAidEyes      bool `json:"first_aid_eyes,omitempty"`
	FirstAidIngestion bool `json:"first_aid_ingestion,omitempty"`
	Fire              bool `json:"fire,omitempty"`
	Spill             bool `json:"spill,omitempty"`
	Storage           bool `json:"storage,omitempty"`
	Handling          bool `json:"handling,omitempty"`
	Disposal          bool `json:"disposal,omitempty"`
	Training          bool `json:"training,omitempty"`
}

// PrecautionaryStatement is a reference P-code entry and its control template.
type PrecautionaryStatement struct {
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	RelatesTo   RelatesTo `json:"relates_to"`
	Control     string    `json:"control"`
	Hierarchy   Hierarchy `json:"hierarchy"`
}
