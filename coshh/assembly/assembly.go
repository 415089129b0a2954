// Package assembly merges a finished workflow state into an assessment record.
package assembly

import (
	"SafetyAgents/coshh/risk"
	"SafetyAgents/entity"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

const titlePrefix = "COSHH Assessment: "

var ErrNoHazards = errors.New("assessment has no substances or process hazards")

// Title names an assessment after its primary substance, or its first
// process hazard when no SDS was used.
func Title(state *entity.WorkflowState) string {
	if p := state.PrimarySubstance(); p != nil && p.ChemicalName != "" {
		return titlePrefix + p.ChemicalName
	}
	if len(state.ProcessHazards) > 0 {
		return titlePrefix + state.ProcessHazards[0].Name
	}
	return titlePrefix + "Untitled"
}

// Assemble builds the immutable assessment record of a completed workflow.
// The result shares no slices with state.
func Assemble(state *entity.WorkflowState, now time.Time) (*entity.Assessment, error) {
	if len(state.SubstanceRecords) == 0 && len(state.ProcessHazards) == 0 {
		return nil, ErrNoHazards
	}

	overall := risk.OverallScore(state.RiskAssessments)
	out := entity.AssessmentOutput{
		HazardSource:                   state.HazardSource,
		SubstanceRecords:               slices.Clone(state.SubstanceRecords),
		ProcessHazards:                 slices.Clone(state.ProcessHazards),
		UsageData:                      state.UsageData,
		EnvironmentData:                state.EnvironmentData,
		WorkerData:                     state.WorkerData,
		RiskAssessments:                slices.Clone(state.RiskAssessments),
		OverallRiskScore:               overall,
		OverallRiskRating:              risk.RiskRating(overall),
		ControlMeasures:                slices.Clone(state.ControlMeasures),
		ControlNotes:                   slices.Clone(state.ControlNotes),
		HealthSurveillanceRequirements: slices.Clone(state.HealthSurveillance),
		APFRequirements:                slices.Clone(state.APFRequirements),
		Corrections:                    slices.Clone(state.Corrections),
		ReviewNotes:                    slices.Clone(state.ReviewNotes),
	}
	out.WorkerData.ExposureRoutes = slices.Clone(state.WorkerData.ExposureRoutes)

	// empty lists are stored as [] rather than null
	if out.HealthSurveillanceRequirements == nil {
		out.HealthSurveillanceRequirements = []entity.HealthSurveillanceRequirement{}
	}
	if out.APFRequirements == nil {
		out.APFRequirements = []entity.APFRequirement{}
	}
	if out.ControlMeasures == nil {
		out.ControlMeasures = []entity.ControlMeasure{}
	}
	if out.SubstanceRecords == nil {
		out.SubstanceRecords = []entity.SubstanceRecord{}
	}
	if out.ProcessHazards == nil {
		out.ProcessHazards = []entity.ProcessGeneratedHazard{}
	}

	return &entity.Assessment{
		ID:           uuid.NewString(),
		Title:        Title(state),
		HiredAgentID: state.HiredAgentID,
		UserID:       state.UserID,
		CompanyID:    state.CompanyID,
		OutputData:   out,
		CreatedAt:    now,
	}, nil
}

// Summary is the one-line description sent to the user on completion.
func Summary(a *entity.Assessment) string {
	return fmt.Sprintf("%s (%d substance(s), %d process hazard(s), overall risk %s)",
		a.Title,
		len(a.OutputData.SubstanceRecords),
		len(a.OutputData.ProcessHazards),
		a.OutputData.OverallRiskRating,
	)
}
