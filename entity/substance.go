package entity

import "strings"

// HazardEntry is one classified hazard from section 2 of an SDS.
type HazardEntry struct {
	Code        string `json:"code,omitempty" bson:"code,omitempty"`
	Type        string `json:"type" bson:"type"`
	HazardClass string `json:"hazard_class,omitempty" bson:"hazard_class,omitempty"`
	Pictogram   string `json:"pictogram,omitempty" bson:"pictogram,omitempty"`
	SignalWord  string `json:"signal_word,omitempty" bson:"signal_word,omitempty"`
}

type PhysicalProperties struct {
	Appearance     string `json:"appearance,omitempty" bson:"appearance,omitempty"`
	Odour          string `json:"odour,omitempty" bson:"odour,omitempty"`
	BoilingPoint   string `json:"boiling_point,omitempty" bson:"boiling_point,omitempty"`
	FlashPoint     string `json:"flash_point,omitempty" bson:"flash_point,omitempty"`
	VapourPressure string `json:"vapour_pressure,omitempty" bson:"vapour_pressure,omitempty"`
}

// ExposureLimits holds workplace exposure limits as printed on the SDS.
type ExposureLimits struct {
	LongTerm  string `json:"long_term,omitempty" bson:"long_term,omitempty"`
	ShortTerm string `json:"short_term,omitempty" bson:"short_term,omitempty"`
	Unit      string `json:"unit,omitempty" bson:"unit,omitempty"`
}

// SubstanceRecord is the structured data extracted from one Safety Data Sheet.
type SubstanceRecord struct {
	ChemicalName        string              `json:"chemical_name" bson:"chemical_name"`
	CasNumber           string              `json:"cas_number,omitempty" bson:"cas_number,omitempty"`
	Supplier            string              `json:"supplier,omitempty" bson:"supplier,omitempty"`
	Hazards             []HazardEntry       `json:"hazards" bson:"hazards"`
	PrecautionaryCodes  []string            `json:"precautionary_codes,omitempty" bson:"precautionary_codes,omitempty"`
	PhysicalProperties  *PhysicalProperties `json:"physical_properties,omitempty" bson:"physical_properties,omitempty"`
	ExposureLimits      *ExposureLimits     `json:"exposure_limits,omitempty" bson:"exposure_limits,omitempty"`
	FirstAid            string              `json:"first_aid,omitempty" bson:"first_aid,omitempty"`
	StorageRequirements string              `json:"storage_requirements,omitempty" bson:"storage_requirements,omitempty"`
	DisposalGuidance    string              `json:"disposal_guidance,omitempty" bson:"disposal_guidance,omitempty"`
}

// HazardCodes returns the H-codes carried by the hazard entries, in order, without duplicates.
func (s *SubstanceRecord) HazardCodes() []string {
	seen := make(map[string]bool)
	codes := make([]string, 0, len(s.Hazards))
	for _, h := range s.Hazards {
		code := strings.ToUpper(strings.TrimSpace(h.Code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes
}

// HazardTypes returns the free-text hazard types of the substance.
func (s *SubstanceRecord) HazardTypes() []string {
	types := make([]string, 0, len(s.Hazards))
	for _, h := range s.Hazards {
		if h.Type != "" {
			types = append(types, h.Type)
		}
	}
	return types
}

// Appearance returns the appearance text or an empty string.
func (s *SubstanceRecord) Appearance() string {
	if s.PhysicalProperties == nil {
		return ""
	}
	return s.PhysicalProperties.Appearance
}

// Document is an uploaded file handed to the extraction adapter.
type Document struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     []byte `json:"data"`
}
