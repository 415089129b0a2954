package entity

// ProcessGeneratedHazard is a hazard created by a work process rather than supplied with an SDS.
type ProcessGeneratedHazard struct {
	Name                  string          `json:"name" bson:"name" yaml:"name"`
	Category              string          `json:"category" bson:"category" yaml:"category"`
	Description           string          `json:"description" bson:"description" yaml:"description"`
	Severity              RouteSeverities `json:"severity" bson:"severity" yaml:"severity"`
	Carcinogen            bool            `json:"carcinogen" bson:"carcinogen" yaml:"carcinogen"`
	RespiratorySensitiser bool            `json:"respiratory_sensitiser" bson:"respiratory_sensitiser" yaml:"respiratory_sensitiser"`
	Asthmagen             bool            `json:"asthmagen" bson:"asthmagen" yaml:"asthmagen"`
	WEL                   string          `json:"wel,omitempty" bson:"wel,omitempty" yaml:"wel"`
	Controls              []string        `json:"controls,omitempty" bson:"controls,omitempty" yaml:"controls"`
}

// HazardTypes returns classification labels usable by keyword matchers.
func (p *ProcessGeneratedHazard) HazardTypes() []string {
	types := []string{p.Name}
	if p.Carcinogen {
		types = append(types, "Carcinogen")
	}
	if p.RespiratorySensitiser {
		types = append(types, "Respiratory sensitiser")
	}
	if p.Asthmagen {
		types = append(types, "Asthmagen")
	}
	return types
}
