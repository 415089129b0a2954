package reference

import (
	"SafetyAgents/entity"
)

// Tag selects precautionary statements relating to one COSHH document section.
type Tag string

const (
	TagAny               Tag = ""
	TagVentilation       Tag = "ventilation"
	TagPPE               Tag = "ppe"
	TagFirstAidInhaled   Tag = "first_aid_inhaled"
	TagFirstAidSkin      Tag = "first_aid_skin"
	TagFirstAidEyes      Tag = "first_aid_eyes"
	TagFirstAidIngestion Tag = "first_aid_ingestion"
	TagFire              Tag = "fire"
	TagSpill             Tag = "spill"
	TagStorage           Tag = "storage"
	TagHandling          Tag = "handling"
	TagDisposal          Tag = "disposal"
	TagTraining          Tag = "training"
)

func (t Tag) matches(r entity.RelatesTo) bool {
	switch t {
	case TagAny:
		return true
	case TagVentilation:
		return r.Ventilation
	case TagPPE:
		return r.PPE
	case TagFirstAidInhaled:
		return r.FirstAidInhaled
	case TagFirstAidSkin:
		return r.FirstAidSkin
	case TagFirstAidEyes:
		return r.FirstAidEyes
	case TagFirstAidIngestion:
		return r.FirstAidIngestion
	case TagFire:
		return r.Fire
	case TagSpill:
		return r.Spill
	case TagStorage:
		return r.Storage
	case TagHandling:
		return r.Handling
	case TagDisposal:
		return r.Disposal
	case TagTraining:
		return r.Training
	}
	return false
}

type pEntry = entity.PrecautionaryStatement

var precautionaryStatements = map[string]pEntry{
	"P102": {Description: "Keep out of reach of children", Type: entity.StatementGeneral,
		RelatesTo: entity.RelatesTo{Storage: true},
		Control:   "Store in a secured area accessible only to authorised staff", Hierarchy: entity.HierarchyAdministrative},
	"P201": {Description: "Obtain special instructions before use", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Training: true},
		Control:   "Issue written safe-use instructions and brief operatives before first use", Hierarchy: entity.HierarchyAdministrative},
	"P202": {Description: "Do not handle until all safety precautions have been read and understood", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Training: true, Handling: true},
		Control:   "Operatives must read and sign the COSHH assessment before handling", Hierarchy: entity.HierarchyAdministrative},
	"P210": {Description: "Keep away from heat, hot surfaces, sparks, open flames and other ignition sources. No smoking", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Fire: true, Handling: true},
		Control:   "Remove ignition sources from the work area and enforce a no-smoking zone", Hierarchy: entity.HierarchyEngineering},
	"P211": {Description: "Do not spray on an open flame or other ignition source", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Fire: true, Handling: true},
		Control:   "Prohibit spraying near open flames or hot work", Hierarchy: entity.HierarchyAdministrative},
	"P233": {Description: "Keep container tightly closed", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Storage: true, Handling: true},
		Control:   "Keep containers closed when not in use to limit vapour release", Hierarchy: entity.HierarchyAdministrative},
	"P240": {Description: "Ground and bond container and receiving equipment", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Fire: true, Handling: true},
		Control:   "Earth and bond containers and transfer equipment", Hierarchy: entity.HierarchyEngineering},
	"P241": {Description: "Use explosion-proof electrical, ventilating and lighting equipment", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Fire: true, Ventilation: true},
		Control:   "Use ATEX-rated electrical, ventilating and lighting equipment in the work zone", Hierarchy: entity.HierarchyEngineering},
	"P243": {Description: "Take action to prevent static discharges", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Fire: true},
		Control:   "Use anti-static footwear and non-sparking tools", Hierarchy: entity.HierarchyEngineering},
	"P260": {Description: "Do not breathe dust/fume/gas/mist/vapours/spray", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Ventilation: true, PPE: true},
		Control:   "Control airborne release at source; do not breathe dust, fume, gas, mist or vapour", Hierarchy: entity.HierarchyEngineering},
	"P261": {Description: "Avoid breathing dust/fume/gas/mist/vapours/spray", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Ventilation: true},
		Control:   "Minimise airborne release and position workers out of the breathing zone of emissions", Hierarchy: entity.HierarchyEngineering},
	"P262": {Description: "Do not get in eyes, on skin, or on clothing", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{PPE: true, Handling: true},
		Control:   "Use closed transfer methods to prevent splashes onto skin, eyes or clothing", Hierarchy: entity.HierarchyEngineering},
	"P264": {Description: "Wash hands thoroughly after handling", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Handling: true},
		Control:   "Provide washing facilities and require hand washing after handling", Hierarchy: entity.HierarchyAdministrative},
	"P270": {Description: "Do not eat, drink or smoke when using this product", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Handling: true},
		Control:   "Prohibit eating, drinking and smoking in the work area", Hierarchy: entity.HierarchyAdministrative},
	"P271": {Description: "Use only outdoors or in a well-ventilated area", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Ventilation: true},
		Control:   "Use only outdoors or in a well-ventilated area with adequate general ventilation", Hierarchy: entity.HierarchyEngineering},
	"P272": {Description: "Contaminated work clothing should not be allowed out of the workplace", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{PPE: true, Handling: true},
		Control:   "Launder contaminated work clothing on site; do not take it home", Hierarchy: entity.HierarchyAdministrative},
	"P273": {Description: "Avoid release to the environment", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{Spill: true, Disposal: true},
		Control:   "Use drip trays and bunding to prevent release to drains", Hierarchy: entity.HierarchyEngineering},
	"P280": {Description: "Wear protective gloves/protective clothing/eye protection/face protection", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{PPE: true},
		Control:   "Wear protective gloves, protective clothing and eye/face protection", Hierarchy: entity.HierarchyPPE},
	"P284": {Description: "In case of inadequate ventilation wear respiratory protection", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{PPE: true, Ventilation: true},
		Control:   "Wear suitable face-fitted respiratory protective equipment where ventilation is inadequate", Hierarchy: entity.HierarchyPPE},
	"P285": {Description: "In case of inadequate ventilation wear respiratory protection", Type: entity.StatementPrevention,
		RelatesTo: entity.RelatesTo{PPE: true, Ventilation: true},
		Control:   "Wear respiratory protective equipment where ventilation is inadequate", Hierarchy: entity.HierarchyPPE},
	"P301+P310": {Description: "If swallowed: immediately call a poison centre/doctor", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidIngestion: true},
		Control:   "If swallowed, call emergency medical help immediately; display the procedure at the work area", Hierarchy: entity.HierarchyAdministrative},
	"P301+P330+P331": {Description: "If swallowed: rinse mouth. Do not induce vomiting", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidIngestion: true},
		Control:   "First aiders trained: if swallowed rinse mouth and do not induce vomiting", Hierarchy: entity.HierarchyAdministrative},
	"P302+P352": {Description: "If on skin: wash with plenty of water", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidSkin: true},
		Control:   "Provide running water near the work area for skin decontamination", Hierarchy: entity.HierarchyEngineering},
	"P303+P361+P353": {Description: "If on skin (or hair): take off immediately all contaminated clothing. Rinse skin with water", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidSkin: true},
		Control:   "Provide an emergency shower and spare clothing for decontamination", Hierarchy: entity.HierarchyEngineering},
	"P304+P340": {Description: "If inhaled: remove person to fresh air and keep comfortable for breathing", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidInhaled: true},
		Control:   "First aiders trained to move casualties to fresh air after inhalation", Hierarchy: entity.HierarchyAdministrative},
	"P305+P351+P338": {Description: "If in eyes: rinse cautiously with water for several minutes. Remove contact lenses", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidEyes: true},
		Control:   "Provide an eye wash station within reach of the work area", Hierarchy: entity.HierarchyEngineering},
	"P308+P313": {Description: "If exposed or concerned: get medical advice/attention", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidInhaled: true, FirstAidSkin: true},
		Control:   "Refer exposed workers for medical advice and record the exposure", Hierarchy: entity.HierarchyAdministrative},
	"P310": {Description: "Immediately call a poison centre/doctor", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidIngestion: true, FirstAidInhaled: true},
		Control:   "Display emergency contact numbers at the work area", Hierarchy: entity.HierarchyAdministrative},
	"P333+P313": {Description: "If skin irritation or rash occurs: get medical advice/attention", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidSkin: true},
		Control:   "Report skin rashes to the supervisor and refer for medical advice", Hierarchy: entity.HierarchyAdministrative},
	"P342+P311": {Description: "If experiencing respiratory symptoms: call a poison centre/doctor", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{FirstAidInhaled: true},
		Control:   "Workers report breathing symptoms immediately; arrange medical assessment", Hierarchy: entity.HierarchyAdministrative},
	"P370+P378": {Description: "In case of fire: use appropriate media to extinguish", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{Fire: true},
		Control:   "Provide suitable fire extinguishers at the point of use", Hierarchy: entity.HierarchyEngineering},
	"P390": {Description: "Absorb spillage to prevent material damage", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{Spill: true},
		Control:   "Keep a spill kit with absorbent at the work area", Hierarchy: entity.HierarchyEngineering},
	"P391": {Description: "Collect spillage", Type: entity.StatementResponse,
		RelatesTo: entity.RelatesTo{Spill: true},
		Control:   "Collect spillage promptly using the spill kit; do not wash to drain", Hierarchy: entity.HierarchyAdministrative},
	"P403": {Description: "Store in a well-ventilated place", Type: entity.StatementStorage,
		RelatesTo: entity.RelatesTo{Storage: true, Ventilation: true},
		Control:   "Store in a well-ventilated store", Hierarchy: entity.HierarchyEngineering},
	"P403+P233": {Description: "Store in a well-ventilated place. Keep container tightly closed", Type: entity.StatementStorage,
		RelatesTo: entity.RelatesTo{Storage: true, Ventilation: true},
		Control:   "Store closed containers in a well-ventilated store", Hierarchy: entity.HierarchyEngineering},
	"P403+P235": {Description: "Store in a well-ventilated place. Keep cool", Type: entity.StatementStorage,
		RelatesTo: entity.RelatesTo{Storage: true, Ventilation: true},
		Control:   "Store in a cool, well-ventilated flammables store", Hierarchy: entity.HierarchyEngineering},
	"P405": {Description: "Store locked up", Type: entity.StatementStorage,
		RelatesTo: entity.RelatesTo{Storage: true},
		Control:   "Store locked up with access limited to authorised staff", Hierarchy: entity.HierarchyAdministrative},
	"P501": {Description: "Dispose of contents/container in accordance with regulations", Type: entity.StatementDisposal,
		RelatesTo: entity.RelatesTo{Disposal: true},
		Control:   "Dispose of contents and containers via a licensed waste contractor", Hierarchy: entity.HierarchyAdministrative},
}

func init() {
	for code, p := range precautionaryStatements {
		p.Code = code
		precautionaryStatements[code] = p
	}
}

// PrecautionaryStatementFor returns the reference entry of a P-code.
func PrecautionaryStatementFor(code string) (entity.PrecautionaryStatement, bool) {
	p, ok := precautionaryStatements[NormalizeCode(code)]
	return p, ok
}

// ControlsForCodes maps P-codes to control measure templates, optionally filtered
// by a relation tag. Output follows input order, deduplicated by code; unknown
// codes are dropped.
func ControlsForCodes(codes []string, tag Tag) []entity.ControlMeasure {
	seen := make(map[string]bool)
	controls := make([]entity.ControlMeasure, 0, len(codes))
	for _, raw := range codes {
		p, ok := PrecautionaryStatementFor(raw)
		if !ok || seen[p.Code] || !tag.matches(p.RelatesTo) {
			continue
		}
		seen[p.Code] = true
		controls = append(controls, entity.ControlMeasure{
			Code:        p.Code,
			Description: p.Control,
			Hierarchy:   p.Hierarchy,
			Source:      p.Code,
		})
	}
	return controls
}
