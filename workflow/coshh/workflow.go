// Package coshh is the COSHH assessment conversation: hazard capture, context
// questions, risk and control derivation, respiratory protection and review.
package coshh

import (
	"SafetyAgents/coshh/assembly"
	"SafetyAgents/coshh/reference"
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

const WorkflowID workflow.WorkflowID = "coshh"

const (
	StepUploadSDS           workflow.StepID = "upload_sds"
	StepConfirmHazard       workflow.StepID = "confirm_hazard"
	StepUsageDetails        workflow.StepID = "usage_details"
	StepEnvironment         workflow.StepID = "environment_assessment"
	StepWorkerExposure      workflow.StepID = "worker_exposure"
	StepControlVerification workflow.StepID = "control_verification"
	StepAPFCalculation      workflow.StepID = "apf_calculation"
	StepFinalReview         workflow.StepID = "final_review"
	StepComplete            workflow.StepID = "complete"
)

// StepOrder is the fixed order of the assessment.
var StepOrder = []workflow.StepID{
	StepUploadSDS,
	StepConfirmHazard,
	StepUsageDetails,
	StepEnvironment,
	StepWorkerExposure,
	StepControlVerification,
	StepAPFCalculation,
	StepFinalReview,
	StepComplete,
}

// Extractor turns an uploaded SDS into a substance record.
type Extractor interface {
	Extract(ctx context.Context, doc entity.Document) (*entity.SubstanceRecord, error)
}

// Estimator estimates exposure likelihood per route.
type Estimator interface {
	EstimateLikelihood(ctx context.Context, req entity.LikelihoodRequest) (*entity.LikelihoodEstimate, error)
}

// Catalog looks up process-generated hazards from a task description.
type Catalog interface {
	SearchByKeyword(text string) []entity.ProcessGeneratedHazard
}

// AssessmentRepository persists assembled assessments.
type AssessmentRepository interface {
	SaveAssessment(ctx context.Context, assessment *entity.Assessment) (string, error)
}

// Dependencies are the collaborators of the workflow.
type Dependencies struct {
	Extractor   Extractor
	Estimator   Estimator
	Catalog     Catalog
	Assessments AssessmentRepository
	// Timeout bounds each extraction or estimation call.
	Timeout time.Duration
}

type Workflow struct {
	steps map[workflow.StepID]workflow.Step
	deps  Dependencies
	now   func() time.Time
	log   *slog.Logger
}

func New(deps Dependencies, log *slog.Logger) *Workflow {
	if deps.Catalog == nil {
		deps.Catalog = reference.DefaultCatalog()
	}
	w := &Workflow{
		deps: deps,
		now:  time.Now,
		log:  log.With(sl.Module("coshh")),
	}
	w.steps = make(map[workflow.StepID]workflow.Step)
	for _, s := range []workflow.Step{
		&uploadStep{w: w},
		&confirmStep{},
		newUsageStep(),
		newEnvironmentStep(),
		newWorkerStep(),
		&controlStep{w: w},
		newAPFStep(),
		&reviewStep{},
	} {
		w.steps[s.ID()] = s
	}
	return w
}

func (w *Workflow) ID() workflow.WorkflowID       { return WorkflowID }
func (w *Workflow) InitialStep() workflow.StepID  { return StepUploadSDS }
func (w *Workflow) TerminalStep() workflow.StepID { return StepComplete }

func (w *Workflow) GetStep(id workflow.StepID) (workflow.Step, bool) {
	s, ok := w.steps[id]
	return s, ok
}

// Next returns the following step, skipping apf_calculation when no hazard is inhalation-class.
func (w *Workflow) Next(state *entity.WorkflowState, current workflow.StepID) workflow.StepID {
	i := slices.Index(StepOrder, current)
	if i < 0 || i+1 >= len(StepOrder) {
		return StepComplete
	}
	next := StepOrder[i+1]
	if next == StepAPFCalculation && !NeedsRespiratoryProtection(state) {
		next = StepOrder[i+2]
	}
	return next
}

// Finish assembles and stores the assessment.
func (w *Workflow) Finish(ctx context.Context, m workflow.Messenger, state *entity.WorkflowState) (string, error) {
	if w.deps.Assessments == nil {
		return "", fmt.Errorf("no assessment repository configured")
	}
	assessment, err := assembly.Assemble(state, w.now())
	if err != nil {
		return "", fmt.Errorf("assemble: %w", err)
	}
	id, err := w.deps.Assessments.SaveAssessment(ctx, assessment)
	if err != nil {
		return "", fmt.Errorf("save assessment: %w", err)
	}

	w.log.Info("assessment saved",
		slog.String("id", id),
		slog.String("key", state.Key),
		slog.String("title", assessment.Title),
	)

	if err = m.SendText("Your assessment has been generated and saved: " + assembly.Summary(assessment)); err != nil {
		w.log.Warn("sending completion message", sl.Err(err))
	}
	return id, nil
}

// NeedsRespiratoryProtection reports whether any substance or process hazard is inhalation-class.
func NeedsRespiratoryProtection(state *entity.WorkflowState) bool {
	for i := range state.SubstanceRecords {
		if reference.SubstanceHasInhalationHazard(&state.SubstanceRecords[i]) {
			return true
		}
	}
	for i := range state.ProcessHazards {
		if reference.ProcessHasInhalationHazard(&state.ProcessHazards[i]) {
			return true
		}
	}
	return false
}

// StepIndex returns the position of a step in StepOrder, or -1.
func StepIndex(id workflow.StepID) int {
	return slices.Index(StepOrder, id)
}

func (w *Workflow) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.deps.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, w.deps.Timeout)
}
