package entity

import (
	"fmt"
	"slices"
	"time"
)

// StepID identifies a step within a workflow.
type StepID string

// WorkflowID identifies a workflow definition.
type WorkflowID string

// HazardSource tells where the hazards of an assessment come from.
type HazardSource string

const (
	HazardSourceSDS     HazardSource = "sds"
	HazardSourceProcess HazardSource = "process"
	HazardSourceBoth    HazardSource = "both"
)

// NeedsSDS reports whether the source requires at least one SDS.
func (h HazardSource) NeedsSDS() bool {
	return h == HazardSourceSDS || h == HazardSourceBoth
}

// NeedsProcess reports whether the source requires at least one process hazard.
func (h HazardSource) NeedsProcess() bool {
	return h == HazardSourceProcess || h == HazardSourceBoth
}

type UsageData struct {
	SubstanceForm          string `json:"substance_form,omitempty" bson:"substance_form,omitempty"`
	SubstanceFormPrefilled bool   `json:"substance_form_prefilled,omitempty" bson:"substance_form_prefilled,omitempty"`
	Purpose                string `json:"purpose,omitempty" bson:"purpose,omitempty"`
	Quantity               string `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Frequency              string `json:"frequency,omitempty" bson:"frequency,omitempty"`
}

type EnvironmentData struct {
	Location        string `json:"location,omitempty" bson:"location,omitempty"`
	Ventilation     string `json:"ventilation,omitempty" bson:"ventilation,omitempty"`
	ConfinedSpace   string `json:"confined_space,omitempty" bson:"confined_space,omitempty"`
	IsConfinedSpace bool   `json:"is_confined_space" bson:"is_confined_space"`
	Temperature     string `json:"temperature,omitempty" bson:"temperature,omitempty"`
	TemperatureUnit string `json:"temperature_unit,omitempty" bson:"temperature_unit,omitempty"`
}

type WorkerData struct {
	WorkerCountText   string   `json:"worker_count_text,omitempty" bson:"worker_count_text,omitempty"`
	WorkerCount       int      `json:"worker_count" bson:"worker_count"`
	ExposureDuration  string   `json:"exposure_duration,omitempty" bson:"exposure_duration,omitempty"`
	ExposureRoutesRaw string   `json:"exposure_routes_text,omitempty" bson:"exposure_routes_text,omitempty"`
	ExposureRoutes    []string `json:"exposure_routes,omitempty" bson:"exposure_routes,omitempty"`
	ExistingControls  string   `json:"existing_controls,omitempty" bson:"existing_controls,omitempty"`
	VulnerableWorkers string   `json:"vulnerable_workers,omitempty" bson:"vulnerable_workers,omitempty"`
}

// PendingSelection holds process hazard candidates awaiting a numbered choice.
type PendingSelection struct {
	Candidates []ProcessGeneratedHazard `json:"candidates" bson:"candidates"`
	PromptedAt time.Time                `json:"prompted_at" bson:"prompted_at"`
}

// WorkflowState is the accumulated conversation state of one user and hired agent.
type WorkflowState struct {
	Key          string     `json:"key" bson:"key"`
	UserID       string     `json:"user_id" bson:"user_id"`
	CompanyID    string     `json:"company_id,omitempty" bson:"company_id,omitempty"`
	HiredAgentID string     `json:"hired_agent_id" bson:"hired_agent_id"`
	WorkflowID   WorkflowID `json:"workflow_id" bson:"workflow_id"`

	CurrentStep    StepID   `json:"current_step" bson:"current_step"`
	CompletedSteps []StepID `json:"completed_steps" bson:"completed_steps"`

	HazardSource                    HazardSource             `json:"hazard_source,omitempty" bson:"hazard_source,omitempty"`
	SubstanceRecords                []SubstanceRecord        `json:"substance_records" bson:"substance_records"`
	ProcessHazards                  []ProcessGeneratedHazard `json:"process_hazards" bson:"process_hazards"`
	AwaitingAdditionalSubstance     bool                     `json:"awaiting_additional_substance" bson:"awaiting_additional_substance"`
	AwaitingAdditionalProcessHazard bool                     `json:"awaiting_additional_process_hazard" bson:"awaiting_additional_process_hazard"`
	SubstancesFrozen                bool                     `json:"substances_frozen" bson:"substances_frozen"`
	ProcessHazardsFrozen            bool                     `json:"process_hazards_frozen" bson:"process_hazards_frozen"`
	PendingSelection                *PendingSelection        `json:"pending_selection,omitempty" bson:"pending_selection,omitempty"`

	HazardConfirmed    bool     `json:"hazard_confirmed" bson:"hazard_confirmed"`
	AwaitingCorrection bool     `json:"awaiting_correction" bson:"awaiting_correction"`
	Corrections        []string `json:"corrections,omitempty" bson:"corrections,omitempty"`

	UsageData       UsageData       `json:"usage_data" bson:"usage_data"`
	EnvironmentData EnvironmentData `json:"environment_data" bson:"environment_data"`
	WorkerData      WorkerData      `json:"worker_data" bson:"worker_data"`

	RiskAssessments    []RiskAssessment                `json:"risk_assessments,omitempty" bson:"risk_assessments,omitempty"`
	ControlMeasures    []ControlMeasure                `json:"control_measures,omitempty" bson:"control_measures,omitempty"`
	HealthSurveillance []HealthSurveillanceRequirement `json:"health_surveillance_requirements,omitempty" bson:"health_surveillance_requirements,omitempty"`
	ControlNotes       []string                        `json:"control_notes,omitempty" bson:"control_notes,omitempty"`
	Validated          bool                            `json:"validated" bson:"validated"`

	APFData         APFData          `json:"apf_data" bson:"apf_data"`
	APFRequirements []APFRequirement `json:"apf_requirements,omitempty" bson:"apf_requirements,omitempty"`

	ReviewNotes     []string `json:"review_notes,omitempty" bson:"review_notes,omitempty"`
	ReviewConfirmed bool     `json:"review_confirmed" bson:"review_confirmed"`

	Version   int64     `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// StateKey builds the session key of a user and hired agent pair.
func StateKey(userID, hiredAgentID string) string {
	return fmt.Sprintf("%s-%s", userID, hiredAgentID)
}

// NewWorkflowState creates an empty state positioned at the initial step.
func NewWorkflowState(userID, companyID, hiredAgentID string, workflowID WorkflowID, initialStep StepID) *WorkflowState {
	now := time.Now()
	return &WorkflowState{
		Key:              StateKey(userID, hiredAgentID),
		UserID:           userID,
		CompanyID:        companyID,
		HiredAgentID:     hiredAgentID,
		WorkflowID:       workflowID,
		CurrentStep:      initialStep,
		CompletedSteps:   []StepID{},
		SubstanceRecords: []SubstanceRecord{},
		ProcessHazards:   []ProcessGeneratedHazard{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// PrimarySubstance returns the first substance record, or nil.
func (s *WorkflowState) PrimarySubstance() *SubstanceRecord {
	if len(s.SubstanceRecords) == 0 {
		return nil
	}
	return &s.SubstanceRecords[0]
}

// HasCompleted reports whether step is in the completed list.
func (s *WorkflowState) HasCompleted(step StepID) bool {
	return slices.Contains(s.CompletedSteps, step)
}

// MarkCompleted appends step to the audit trail.
func (s *WorkflowState) MarkCompleted(step StepID) {
	s.CompletedSteps = append(s.CompletedSteps, step)
}

// HasExposureRoute reports whether the worker data lists the route.
func (s *WorkflowState) HasExposureRoute(route string) bool {
	return slices.Contains(s.WorkerData.ExposureRoutes, route)
}
