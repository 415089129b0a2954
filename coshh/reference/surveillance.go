package reference

import (
	"SafetyAgents/entity"
	"strings"
	"unicode"
)

const (
	coshhReg11 = "COSHH Regulations 2002, Regulation 11 and Schedule 6"
	annual     = "Annual"
)

var surveillanceTable = []entity.HealthSurveillanceRequirement{
	{
		Substance:  "Isocyanates (all types)",
		CasNumbers: []string{"584-84-9", "91-08-7", "26471-62-5", "101-68-8", "822-06-0", "4098-71-9"},
		Mandatory:  true,
		Frequency:  "Pre-employment baseline, then at 6 weeks, 12 weeks and annually",
		Methods:    []string{"Respiratory symptom questionnaire", "Lung function testing (spirometry)", "Skin inspection"},
		LegalBasis: coshhReg11 + "; HSE G402",
	},
	{
		Substance:  "Lead and lead compounds",
		CasNumbers: []string{"7439-92-1", "1317-36-8", "7758-97-6"},
		Mandatory:  true,
		Frequency:  "Blood-lead measurement at least every 12 months (more frequently above action levels)",
		Methods:    []string{"Blood-lead concentration", "Urinary lead", "Medical surveillance by appointed doctor"},
		LegalBasis: "Control of Lead at Work Regulations 2002, Regulation 10",
	},
	{
		Substance:  "Asbestos",
		CasNumbers: []string{"1332-21-4", "12001-29-5", "12172-73-5"},
		Mandatory:  true,
		Frequency:  "Every 3 years by an appointed doctor",
		Methods:    []string{"Medical examination", "Chest examination", "Lung function testing"},
		LegalBasis: "Control of Asbestos Regulations 2012, Regulation 22",
	},
	{
		Substance:  "Respirable crystalline silica",
		CasNumbers: []string{"14808-60-7", "14464-46-1"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Lung function testing", "Chest X-ray every 3 years for long exposure"},
		LegalBasis: coshhReg11 + "; HSE G404",
	},
	{
		Substance:  "Hardwood dust",
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Lung function testing", "Nasal symptom enquiry"},
		LegalBasis: coshhReg11 + "; HSE G403",
	},
	{
		Substance:  "Flour dust",
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Lung function testing"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Glutaraldehyde",
		CasNumbers: []string{"111-30-8"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Skin inspection"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Chromium (VI) compounds",
		CasNumbers: []string{"7738-94-5", "1333-82-0", "7789-00-6", "7778-50-9"},
		Mandatory:  true,
		Frequency:  "Skin and nasal inspection every 2 weeks by a responsible person; annual questionnaire",
		Methods:    []string{"Skin inspection", "Nasal inspection", "Respiratory questionnaire"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Nickel and nickel compounds",
		CasNumbers: []string{"7440-02-0", "7786-81-4", "7718-54-9"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Skin inspection", "Respiratory questionnaire"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Rosin-based solder flux fume (colophony)",
		CasNumbers: []string{"8050-09-7"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Lung function testing"},
		LegalBasis: coshhReg11 + "; HSE G402",
	},
	{
		Substance:  "Welding fume",
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Lung function testing"},
		LegalBasis: coshhReg11 + "; HSE G402",
	},
	{
		Substance:  "Vinyl chloride monomer",
		CasNumbers: []string{"75-01-4"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Medical surveillance by appointed doctor"},
		LegalBasis: coshhReg11 + " (Schedule 6 substance)",
	},
	{
		Substance:  "Benzene",
		CasNumbers: []string{"71-43-2"},
		Mandatory:  false,
		Frequency:  annual,
		Methods:    []string{"Biological monitoring (urinary S-phenylmercapturic acid)", "Full blood count"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Formaldehyde",
		CasNumbers: []string{"50-00-0"},
		Mandatory:  false,
		Frequency:  annual,
		Methods:    []string{"Respiratory questionnaire", "Skin inspection"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Cadmium and cadmium compounds",
		CasNumbers: []string{"7440-43-9", "1306-19-0"},
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Urinary cadmium", "Urinary beta-2-microglobulin", "Respiratory questionnaire"},
		LegalBasis: coshhReg11,
	},
	{
		Substance:  "Mineral oils (metalworking fluids)",
		Mandatory:  true,
		Frequency:  annual,
		Methods:    []string{"Skin inspection", "Respiratory questionnaire"},
		LegalBasis: coshhReg11 + "; HSE G405",
	},
}

// keywordRule maps a lowercase keyword found in a substance name to a canonical table entry.
type keywordRule struct {
	Keyword   string
	Substance string
	// Word requires the keyword to stand alone ("lead" must not match "unleaded").
	Word bool
}

// Rules are evaluated in order; the first keyword contained in the name wins.
var surveillanceKeywords = []keywordRule{
	{Keyword: "isocyanate", Substance: "Isocyanates (all types)"},
	{Keyword: "diisocyanate", Substance: "Isocyanates (all types)"},
	{Keyword: "2k paint", Substance: "Isocyanates (all types)"},
	{Keyword: "polyurethane", Substance: "Isocyanates (all types)"},
	{Keyword: "lead", Word: true, Substance: "Lead and lead compounds"},
	{Keyword: "asbestos", Substance: "Asbestos"},
	{Keyword: "silica", Substance: "Respirable crystalline silica"},
	{Keyword: "quartz", Substance: "Respirable crystalline silica"},
	{Keyword: "stone dust", Substance: "Respirable crystalline silica"},
	{Keyword: "concrete dust", Substance: "Respirable crystalline silica"},
	{Keyword: "hardwood", Substance: "Hardwood dust"},
	{Keyword: "wood dust", Substance: "Hardwood dust"},
	{Keyword: "mdf", Word: true, Substance: "Hardwood dust"},
	{Keyword: "flour", Substance: "Flour dust"},
	{Keyword: "glutaraldehyde", Substance: "Glutaraldehyde"},
	{Keyword: "chromate", Substance: "Chromium (VI) compounds"},
	{Keyword: "chromic", Substance: "Chromium (VI) compounds"},
	{Keyword: "hexavalent", Substance: "Chromium (VI) compounds"},
	{Keyword: "nickel", Substance: "Nickel and nickel compounds"},
	{Keyword: "colophony", Substance: "Rosin-based solder flux fume (colophony)"},
	{Keyword: "rosin", Word: true, Substance: "Rosin-based solder flux fume (colophony)"},
	{Keyword: "solder", Substance: "Rosin-based solder flux fume (colophony)"},
	{Keyword: "welding", Substance: "Welding fume"},
	{Keyword: "vinyl chloride", Substance: "Vinyl chloride monomer"},
	{Keyword: "benzene", Substance: "Benzene"},
	{Keyword: "formaldehyde", Substance: "Formaldehyde"},
	{Keyword: "formalin", Substance: "Formaldehyde"},
	{Keyword: "cadmium", Substance: "Cadmium and cadmium compounds"},
	{Keyword: "metalworking fluid", Substance: "Mineral oils (metalworking fluids)"},
	{Keyword: "cutting fluid", Substance: "Mineral oils (metalworking fluids)"},
	{Keyword: "soluble oil", Substance: "Mineral oils (metalworking fluids)"},
}

// minNameMatch keeps short names from matching unrelated table entries.
const minNameMatch = 4

// SurveillanceFor finds the health surveillance requirement of a substance by exact
// CAS number, then by substring name match, then by the keyword rule table.
// It returns nil when nothing matches.
func SurveillanceFor(substanceName, casNumber string) *entity.HealthSurveillanceRequirement {
	cas := strings.TrimSpace(casNumber)
	if cas != "" {
		for i := range surveillanceTable {
			for _, c := range surveillanceTable[i].CasNumbers {
				if c == cas {
					return found(i, substanceName)
				}
			}
		}
	}

	name := strings.ToLower(strings.TrimSpace(substanceName))
	if len(name) < minNameMatch {
		return nil
	}

	for i := range surveillanceTable {
		entry := strings.ToLower(surveillanceTable[i].Substance)
		if strings.Contains(name, entry) || strings.Contains(entry, name) {
			return found(i, substanceName)
		}
	}

	for _, rule := range surveillanceKeywords {
		if !rule.matches(name) {
			continue
		}
		for i := range surveillanceTable {
			if surveillanceTable[i].Substance == rule.Substance {
				return found(i, substanceName)
			}
		}
	}

	return nil
}

func (r keywordRule) matches(name string) bool {
	if !r.Word {
		return strings.Contains(name, r.Keyword)
	}
	for _, w := range strings.FieldsFunc(name, isSeparator) {
		if w == r.Keyword {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func found(i int, matchedFor string) *entity.HealthSurveillanceRequirement {
	req := surveillanceTable[i]
	req.CasNumbers = append([]string(nil), req.CasNumbers...)
	req.Methods = append([]string(nil), req.Methods...)
	req.MatchedFor = matchedFor
	return &req
}
