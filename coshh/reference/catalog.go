package reference

import (
	"SafetyAgents/entity"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed process_hazards.yaml
var processHazardsYAML []byte

type categoryRule struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

type catalogEntry struct {
	entity.ProcessGeneratedHazard `yaml:",inline"`
	Keywords                      []string `yaml:"keywords"`
}

type catalogFile struct {
	Rules   []categoryRule `yaml:"rules"`
	Hazards []catalogEntry `yaml:"hazards"`
}

// Catalog is the process-generated hazard reference list.
type Catalog struct {
	rules   []categoryRule
	entries []catalogEntry
}

// LoadCatalog parses a catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse process hazard catalog: %w", err)
	}
	for i, r := range file.Rules {
		file.Rules[i].Keyword = strings.ToLower(r.Keyword)
	}
	return &Catalog{rules: file.Rules, entries: file.Hazards}, nil
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(processHazardsYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// All returns every catalog hazard.
func (c *Catalog) All() []entity.ProcessGeneratedHazard {
	out := make([]entity.ProcessGeneratedHazard, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.ProcessGeneratedHazard)
	}
	return out
}

// GetByName returns the hazard with the given name, ignoring case.
func (c *Catalog) GetByName(name string) (*entity.ProcessGeneratedHazard, bool) {
	for _, e := range c.entries {
		if strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			h := e.ProcessGeneratedHazard
			return &h, true
		}
	}
	return nil, false
}

// SearchByKeyword maps a free-text task description to candidate hazards.
// Categories are chosen by the keyword rules; within the matched categories,
// hazards whose own keywords also appear in the text are preferred.
// Results keep catalog order.
func (c *Catalog) SearchByKeyword(text string) []entity.ProcessGeneratedHazard {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	categories := make(map[string]bool)
	for _, r := range c.rules {
		if strings.Contains(lower, r.Keyword) {
			categories[r.Category] = true
		}
	}

	var candidates, specific []entity.ProcessGeneratedHazard
	for _, e := range c.entries {
		byName := strings.Contains(lower, strings.ToLower(e.Name))
		if !byName && !categories[e.Category] {
			continue
		}
		candidates = append(candidates, e.ProcessGeneratedHazard)
		if byName || e.mentioned(lower) {
			specific = append(specific, e.ProcessGeneratedHazard)
		}
	}

	if len(specific) > 0 {
		return specific
	}
	return candidates
}

func (e catalogEntry) mentioned(lower string) bool {
	for _, kw := range e.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
