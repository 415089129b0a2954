package entity

// Hierarchy is the position of a control in the hierarchy of control.
type Hierarchy string

const (
	HierarchyElimination    Hierarchy = "elimination"
	HierarchySubstitution   Hierarchy = "substitution"
	HierarchyEngineering    Hierarchy = "engineering"
	HierarchyAdministrative Hierarchy = "administrative"
	HierarchyPPE            Hierarchy = "ppe"
)

// HierarchyOrder is the preference order used when grouping controls for display.
var HierarchyOrder = []Hierarchy{
	HierarchyElimination,
	HierarchySubstitution,
	HierarchyEngineering,
	HierarchyAdministrative,
	HierarchyPPE,
}

// Control sources other than a precautionary code.
const (
	SourceContext = "context"
	SourceProcess = "process"
)

type ControlMeasure struct {
	Code        string    `json:"code" bson:"code"`
	Description string    `json:"description" bson:"description"`
	Hierarchy   Hierarchy `json:"hierarchy" bson:"hierarchy"`
	Source      string    `json:"source" bson:"source"`
	Citation    string    `json:"citation,omitempty" bson:"citation,omitempty"`
}
