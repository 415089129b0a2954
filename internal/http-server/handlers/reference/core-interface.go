package reference

import "SafetyAgents/entity"

type Core interface {
	HazardStatement(code string) (*entity.HazardStatement, error)
	PrecautionaryStatement(code string) (*entity.PrecautionaryStatement, error)
	ProcessHazards(query string) []entity.ProcessGeneratedHazard
	Surveillance(name, cas string) (*entity.HealthSurveillanceRequirement, error)
}
