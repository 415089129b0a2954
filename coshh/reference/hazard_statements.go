// Package reference holds the static COSHH lookup tables: hazard statements,
// precautionary statements, the health surveillance list and the process hazard catalog.
package reference

import (
	"SafetyAgents/entity"
	"strings"
)

const (
	danger  = "Danger"
	warning = "Warning"
)

func sev(inhalation, ingestion, skinEye, other int) entity.RouteSeverities {
	return entity.RouteSeverities{Inhalation: inhalation, Ingestion: ingestion, SkinEye: skinEye, Other: other}
}

var hazardStatements = map[string]entity.HazardStatement{
	// physical hazards
	"H200": {Description: "Unstable explosive", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H201": {Description: "Explosive; mass explosion hazard", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H220": {Description: "Extremely flammable gas", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H221": {Description: "Flammable gas", Severity: sev(0, 0, 0, 4), SignalWord: danger},
	"H222": {Description: "Extremely flammable aerosol", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H223": {Description: "Flammable aerosol", Severity: sev(0, 0, 0, 3), SignalWord: warning},
	"H224": {Description: "Extremely flammable liquid and vapour", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H225": {Description: "Highly flammable liquid and vapour", Severity: sev(0, 0, 0, 4), SignalWord: danger},
	"H226": {Description: "Flammable liquid and vapour", Severity: sev(0, 0, 0, 3), SignalWord: warning},
	"H228": {Description: "Flammable solid", Severity: sev(0, 0, 0, 3), SignalWord: danger},
	"H229": {Description: "Pressurised container: may burst if heated", Severity: sev(0, 0, 0, 2), SignalWord: warning},
	"H240": {Description: "Heating may cause an explosion", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H242": {Description: "Heating may cause a fire", Severity: sev(0, 0, 0, 3), SignalWord: warning},
	"H250": {Description: "Catches fire spontaneously if exposed to air", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H260": {Description: "In contact with water releases flammable gases which may ignite spontaneously", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H261": {Description: "In contact with water releases flammable gas", Severity: sev(0, 0, 0, 4), SignalWord: danger},
	"H270": {Description: "May cause or intensify fire; oxidiser", Severity: sev(0, 0, 0, 4), SignalWord: danger},
	"H271": {Description: "May cause fire or explosion; strong oxidiser", Severity: sev(0, 0, 0, 5), SignalWord: danger},
	"H272": {Description: "May intensify fire; oxidiser", Severity: sev(0, 0, 0, 3), SignalWord: warning},
	"H280": {Description: "Contains gas under pressure; may explode if heated", Severity: sev(0, 0, 0, 3), SignalWord: warning},
	"H281": {Description: "Contains refrigerated gas; may cause cryogenic burns or injury", Severity: sev(0, 0, 3, 2), SignalWord: warning},
	"H290": {Description: "May be corrosive to metals", Severity: sev(0, 0, 1, 1), SignalWord: warning},

	// health hazards
	"H300":  {Description: "Fatal if swallowed", Severity: sev(0, 5, 0, 0), SignalWord: danger},
	"H301":  {Description: "Toxic if swallowed", Severity: sev(0, 4, 0, 0), SignalWord: danger},
	"H302":  {Description: "Harmful if swallowed", Severity: sev(0, 3, 0, 0), SignalWord: warning},
	"H304":  {Description: "May be fatal if swallowed and enters airways", Severity: sev(0, 4, 0, 0), SignalWord: danger},
	"H310":  {Description: "Fatal in contact with skin", Severity: sev(0, 0, 5, 0), SignalWord: danger},
	"H311":  {Description: "Toxic in contact with skin", Severity: sev(0, 0, 4, 0), SignalWord: danger},
	"H312":  {Description: "Harmful in contact with skin", Severity: sev(0, 0, 3, 0), SignalWord: warning},
	"H314":  {Description: "Causes severe skin burns and eye damage", Severity: sev(0, 3, 5, 0), SignalWord: danger},
	"H315":  {Description: "Causes skin irritation", Severity: sev(0, 0, 2, 0), SignalWord: warning},
	"H317":  {Description: "May cause an allergic skin reaction", Severity: sev(0, 0, 3, 0), SignalWord: warning},
	"H318":  {Description: "Causes serious eye damage", Severity: sev(0, 0, 4, 0), SignalWord: danger},
	"H319":  {Description: "Causes serious eye irritation", Severity: sev(0, 0, 2, 0), SignalWord: warning},
	"H330":  {Description: "Fatal if inhaled", Severity: sev(5, 0, 0, 0), SignalWord: danger},
	"H331":  {Description: "Toxic if inhaled", Severity: sev(4, 0, 0, 0), SignalWord: danger},
	"H332":  {Description: "Harmful if inhaled", Severity: sev(3, 0, 0, 0), SignalWord: warning},
	"H334":  {Description: "May cause allergy or asthma symptoms or breathing difficulties if inhaled", Severity: sev(4, 0, 0, 0), SignalWord: danger},
	"H335":  {Description: "May cause respiratory irritation", Severity: sev(2, 0, 0, 0), SignalWord: warning},
	"H336":  {Description: "May cause drowsiness or dizziness", Severity: sev(2, 0, 0, 0), SignalWord: warning},
	"H340":  {Description: "May cause genetic defects", Severity: sev(5, 5, 4, 0), SignalWord: danger},
	"H341":  {Description: "Suspected of causing genetic defects", Severity: sev(4, 4, 3, 0), SignalWord: warning},
	"H350":  {Description: "May cause cancer", Severity: sev(5, 5, 4, 0), SignalWord: danger},
	"H350I": {Description: "May cause cancer by inhalation", Severity: sev(5, 0, 0, 0), SignalWord: danger},
	"H351":  {Description: "Suspected of causing cancer", Severity: sev(4, 4, 3, 0), SignalWord: warning},
	"H360":  {Description: "May damage fertility or the unborn child", Severity: sev(5, 5, 4, 0), SignalWord: danger},
	"H361":  {Description: "Suspected of damaging fertility or the unborn child", Severity: sev(4, 4, 3, 0), SignalWord: warning},
	"H362":  {Description: "May cause harm to breast-fed children", Severity: sev(3, 3, 2, 0), SignalWord: ""},
	"H370":  {Description: "Causes damage to organs", Severity: sev(5, 5, 4, 0), SignalWord: danger},
	"H371":  {Description: "May cause damage to organs", Severity: sev(4, 4, 3, 0), SignalWord: warning},
	"H372":  {Description: "Causes damage to organs through prolonged or repeated exposure", Severity: sev(4, 4, 3, 0), SignalWord: danger},
	"H373":  {Description: "May cause damage to organs through prolonged or repeated exposure", Severity: sev(3, 3, 2, 0), SignalWord: warning},

	// environmental hazards
	"H400": {Description: "Very toxic to aquatic life", Severity: sev(0, 0, 0, 2), SignalWord: warning},
	"H410": {Description: "Very toxic to aquatic life with long lasting effects", Severity: sev(0, 0, 0, 2), SignalWord: warning},
	"H411": {Description: "Toxic to aquatic life with long lasting effects", Severity: sev(0, 0, 0, 1), SignalWord: ""},
	"H412": {Description: "Harmful to aquatic life with long lasting effects", Severity: sev(0, 0, 0, 1), SignalWord: ""},
	"H413": {Description: "May cause long lasting harmful effects to aquatic life", Severity: sev(0, 0, 0, 1), SignalWord: ""},

	// supplemental EU statements
	"EUH014": {Description: "Reacts violently with water", Severity: sev(0, 0, 2, 3), SignalWord: ""},
	"EUH029": {Description: "Contact with water liberates toxic gas", Severity: sev(4, 0, 0, 0), SignalWord: ""},
	"EUH031": {Description: "Contact with acids liberates toxic gas", Severity: sev(4, 0, 0, 0), SignalWord: ""},
	"EUH066": {Description: "Repeated exposure may cause skin dryness or cracking", Severity: sev(0, 0, 1, 0), SignalWord: ""},
	"EUH071": {Description: "Corrosive to the respiratory tract", Severity: sev(4, 0, 0, 0), SignalWord: ""},
	"EUH204": {Description: "Contains isocyanates. May produce an allergic reaction", Severity: sev(3, 0, 2, 0), SignalWord: ""},
	"EUH208": {Description: "Contains a sensitising substance. May produce an allergic reaction", Severity: sev(0, 0, 1, 0), SignalWord: ""},
}

func init() {
	for code, h := range hazardStatements {
		h.Code = code
		hazardStatements[code] = h
	}
}

// NormalizeCode upper-cases a statement code and strips whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.Join(strings.Fields(code), ""))
}

// HazardStatementFor returns the reference entry of an H-code.
func HazardStatementFor(code string) (entity.HazardStatement, bool) {
	h, ok := hazardStatements[NormalizeCode(code)]
	return h, ok
}

// SeveritiesForCodes returns, per exposure route, the highest severity among the
// known codes. Unknown codes contribute nothing.
func SeveritiesForCodes(codes []string) entity.RouteSeverities {
	var result entity.RouteSeverities
	for _, code := range codes {
		h, ok := HazardStatementFor(code)
		if !ok {
			continue
		}
		result = result.Max(h.Severity)
	}
	return result
}
