package core

import (
	"SafetyAgents/coshh/reference"
	"SafetyAgents/entity"
	"strings"
)

func (c *Core) HazardStatement(code string) (*entity.HazardStatement, error) {
	st, ok := reference.HazardStatementFor(code)
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

func (c *Core) PrecautionaryStatement(code string) (*entity.PrecautionaryStatement, error) {
	st, ok := reference.PrecautionaryStatementFor(code)
	if !ok {
		return nil, ErrNotFound
	}
	return &st, nil
}

// ProcessHazards searches the process hazard catalog; an empty query lists it.
func (c *Core) ProcessHazards(query string) []entity.ProcessGeneratedHazard {
	catalog := c.catalog
	if catalog == nil {
		catalog = reference.DefaultCatalog()
	}
	if strings.TrimSpace(query) == "" {
		return catalog.All()
	}
	found := catalog.SearchByKeyword(query)
	if found == nil {
		found = []entity.ProcessGeneratedHazard{}
	}
	return found
}

func (c *Core) Surveillance(name, cas string) (*entity.HealthSurveillanceRequirement, error) {
	req := reference.SurveillanceFor(name, cas)
	if req == nil {
		return nil, ErrNotFound
	}
	return req, nil
}
