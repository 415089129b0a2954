package assembly

import (
	"SafetyAgents/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble(t *testing.T) {
	state := entity.NewWorkflowState("u1", "c1", "a1", "coshh", "complete")
	state.HazardSource = entity.HazardSourceSDS
	state.SubstanceRecords = []entity.SubstanceRecord{
		{ChemicalName: "Toluene Diisocyanate (TDI)", CasNumber: "584-84-9"},
		{ChemicalName: "Acetone"},
	}
	state.RiskAssessments = []entity.RiskAssessment{{OverallScore: 8}, {OverallScore: 15}}
	state.HealthSurveillance = []entity.HealthSurveillanceRequirement{{Substance: "Isocyanates (all types)"}}
	state.WorkerData.ExposureRoutes = []string{entity.RouteInhalation}

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a, err := Assemble(state, now)
	require.NoError(t, err)

	assert.Equal(t, "COSHH Assessment: Toluene Diisocyanate (TDI)", a.Title)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "a1", a.HiredAgentID)
	assert.Equal(t, now, a.CreatedAt)
	assert.Len(t, a.OutputData.SubstanceRecords, 2)
	assert.Equal(t, 15, a.OutputData.OverallRiskScore)
	assert.Equal(t, entity.RiskHigh, a.OutputData.OverallRiskRating)
	assert.NotEmpty(t, a.OutputData.HealthSurveillanceRequirements)
	assert.NotNil(t, a.OutputData.APFRequirements)

	// the record does not alias the state
	state.SubstanceRecords[0].ChemicalName = "changed"
	state.WorkerData.ExposureRoutes[0] = "changed"
	assert.Equal(t, "Toluene Diisocyanate (TDI)", a.OutputData.SubstanceRecords[0].ChemicalName)
	assert.Equal(t, entity.RouteInhalation, a.OutputData.WorkerData.ExposureRoutes[0])
}

func TestTitle_ProcessOnly(t *testing.T) {
	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "complete")
	state.ProcessHazards = []entity.ProcessGeneratedHazard{{Name: "Hardwood dust"}}
	assert.Equal(t, "COSHH Assessment: Hardwood dust", Title(state))
}

func TestAssemble_NoHazards(t *testing.T) {
	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "complete")
	_, err := Assemble(state, time.Now())
	assert.ErrorIs(t, err, ErrNoHazards)
}

func TestSummary(t *testing.T) {
	state := entity.NewWorkflowState("u1", "", "a1", "coshh", "complete")
	state.SubstanceRecords = []entity.SubstanceRecord{{ChemicalName: "Acetone"}}
	state.ProcessHazards = []entity.ProcessGeneratedHazard{{Name: "Hardwood dust"}}
	state.RiskAssessments = []entity.RiskAssessment{{OverallScore: 4}}

	a, err := Assemble(state, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "COSHH Assessment: Acetone (1 substance(s), 1 process hazard(s), overall risk Low)", Summary(a))
}
