// Package controls resolves the control measures of a hazard from its
// precautionary codes and the task context.
package controls

import (
	"SafetyAgents/coshh/reference"
	"SafetyAgents/entity"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Context is the input of Resolve for one substance or process hazard.
type Context struct {
	PrecautionaryCodes []string
	HazardTypes        []string
	// InhalationHazard is set when the subject is known to be an inhalation
	// hazard beyond its type strings (hazard class, H-statement text).
	InhalationHazard bool
	Ventilation      string
	ConfinedSpace    bool
	ExposureRoutes   []string
}

// Codes of contextual controls.
const (
	CodeLEVTesting    = "CTX-LEV-TEST"
	CodeConfinedSpace = "CTX-CONFINED"
	CodeRPEFaceFit    = "CTX-RPE-FIT"
	CodeGloves        = "CTX-GLOVES"
	CodeSupervision   = "CTX-SUPERVISION"
	CodeTraining      = "CTX-TRAINING"
)

var levPattern = regexp.MustCompile(`(?i)\bLEV\b|local exhaust|extraction`)

var (
	levTesting = entity.ControlMeasure{
		Code:        CodeLEVTesting,
		Description: "LEV must be thoroughly examined and tested by a competent person at least every 14 months, with records kept for 5 years",
		Hierarchy:   entity.HierarchyEngineering,
		Source:      entity.SourceContext,
		Citation:    "COSHH Regulations 2002, Regulation 9",
	}
	confinedSpace = entity.ControlMeasure{
		Code:        CodeConfinedSpace,
		Description: "Confined space entry under a permit-to-work with atmospheric monitoring, a standby person and rescue arrangements",
		Hierarchy:   entity.HierarchyAdministrative,
		Source:      entity.SourceContext,
		Citation:    "Confined Spaces Regulations 1997",
	}
	rpeFaceFit = entity.ControlMeasure{
		Code:        CodeRPEFaceFit,
		Description: "Tight-fitting RPE must be face-fit tested for each wearer and maintained; wearers must be clean shaven where the seal requires it",
		Hierarchy:   entity.HierarchyPPE,
		Source:      entity.SourceContext,
		Citation:    "HSE INDG479; COSHH Regulations 2002, Regulation 7",
	}
	gloves = entity.ControlMeasure{
		Code:        CodeGloves,
		Description: "Chemical-resistant gloves selected against the SDS breakthrough time, replaced before breakthrough",
		Hierarchy:   entity.HierarchyPPE,
		Source:      entity.SourceContext,
	}
	supervision = entity.ControlMeasure{
		Code:        CodeSupervision,
		Description: "Supervisors check that controls are used and defects are reported",
		Hierarchy:   entity.HierarchyAdministrative,
		Source:      entity.SourceContext,
	}
	training = entity.ControlMeasure{
		Code:        CodeTraining,
		Description: "Workers are informed, instructed and trained on the hazards, controls and emergency procedures",
		Hierarchy:   entity.HierarchyAdministrative,
		Source:      entity.SourceContext,
		Citation:    "COSHH Regulations 2002, Regulation 12",
	}
)

// Resolve returns P-code controls in input order followed by contextual controls
// in a fixed order. Hierarchy is a tag only; the list is not sorted by it.
func Resolve(c Context) []entity.ControlMeasure {
	out := reference.ControlsForCodes(c.PrecautionaryCodes, reference.TagAny)

	if levPattern.MatchString(c.Ventilation) {
		out = append(out, levTesting)
	}
	if c.ConfinedSpace {
		out = append(out, confinedSpace)
	}
	if (c.InhalationHazard || hasInhalationType(c.HazardTypes)) && hasRoute(c.ExposureRoutes, entity.RouteInhalation) {
		out = append(out, rpeFaceFit)
	}
	if hasRoute(c.ExposureRoutes, entity.RouteSkinEye) {
		out = append(out, gloves)
	}
	out = append(out, supervision, training)

	return out
}

// ForProcess converts the catalog controls of a process hazard into control measures.
func ForProcess(p entity.ProcessGeneratedHazard) []entity.ControlMeasure {
	out := make([]entity.ControlMeasure, 0, len(p.Controls))
	for i, d := range p.Controls {
		out = append(out, entity.ControlMeasure{
			Code:        processCode(p.Name, i),
			Description: d,
			Hierarchy:   hierarchyOf(d),
			Source:      entity.SourceProcess,
		})
	}
	return out
}

// Merge concatenates control lists, keeping the first occurrence of each code.
func Merge(lists ...[]entity.ControlMeasure) []entity.ControlMeasure {
	seen := make(map[string]bool)
	var out []entity.ControlMeasure
	for _, list := range lists {
		for _, c := range list {
			if seen[c.Code] {
				continue
			}
			seen[c.Code] = true
			out = append(out, c)
		}
	}
	return out
}

// Group is the controls of one hierarchy level.
type Group struct {
	Hierarchy entity.Hierarchy
	Controls  []entity.ControlMeasure
}

// GroupByHierarchy groups controls for display, most preferred level first.
// Empty levels are omitted; order within a level is kept.
func GroupByHierarchy(controls []entity.ControlMeasure) []Group {
	var groups []Group
	for _, h := range entity.HierarchyOrder {
		var g []entity.ControlMeasure
		for _, c := range controls {
			if c.Hierarchy == h {
				g = append(g, c)
			}
		}
		if len(g) > 0 {
			groups = append(groups, Group{Hierarchy: h, Controls: g})
		}
	}
	return groups
}

// ParseRoutes maps a free-text exposure route answer to route identifiers.
func ParseRoutes(text string) []string {
	lower := strings.ToLower(text)
	var routes []string
	add := func(route string, keywords ...string) {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) && !slices.Contains(routes, route) {
				routes = append(routes, route)
				return
			}
		}
	}
	add(entity.RouteInhalation, "inhal", "breath", "airborne", "vapour", "vapor", "dust", "fume")
	add(entity.RouteSkinEye, "skin", "eye", "splash", "contact", "dermal", "hand")
	add(entity.RouteIngestion, "ingest", "swallow", "mouth", "eating")
	if all := strings.TrimSpace(lower); all == "all" || strings.HasPrefix(all, "all routes") || strings.HasPrefix(all, "all of") {
		for _, r := range []string{entity.RouteInhalation, entity.RouteSkinEye, entity.RouteIngestion} {
			if !slices.Contains(routes, r) {
				routes = append(routes, r)
			}
		}
	}
	return routes
}

func hasRoute(routes []string, route string) bool {
	return slices.Contains(routes, route)
}

func hasInhalationType(types []string) bool {
	for _, t := range types {
		if reference.IsInhalationHazard(t) {
			return true
		}
	}
	return false
}

func processCode(name string, i int) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, name)
	return "PROC-" + slug + "-" + strconv.Itoa(i+1)
}

func hierarchyOf(description string) entity.Hierarchy {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "remove") || strings.Contains(lower, "eliminat"):
		return entity.HierarchyElimination
	case strings.Contains(lower, "use ") && strings.Contains(lower, "where possible"),
		strings.Contains(lower, "low-dust"), strings.Contains(lower, "electric"):
		return entity.HierarchySubstitution
	case strings.Contains(lower, "respirator"), strings.Contains(lower, "rpe"),
		strings.Contains(lower, "th2"), strings.Contains(lower, "th3"):
		return entity.HierarchyPPE
	case strings.Contains(lower, "check"), strings.Contains(lower, "monitor"),
		strings.Contains(lower, "cleaning"):
		return entity.HierarchyAdministrative
	default:
		return entity.HierarchyEngineering
	}
}
