package coshh

import (
	"SafetyAgents/coshh/controls"
	"SafetyAgents/entity"
	"SafetyAgents/internal/database/memory"
	"SafetyAgents/workflow"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tdi = entity.SubstanceRecord{
	ChemicalName: "Toluene Diisocyanate (TDI)",
	CasNumber:    "584-84-9",
	Hazards: []entity.HazardEntry{
		{Code: "H334", Type: "Respiratory sensitiser", SignalWord: "Danger"},
		{Code: "H315", Type: "Skin irritant", SignalWord: "Warning"},
	},
	PrecautionaryCodes: []string{"P284", "P280"},
	PhysicalProperties: &entity.PhysicalProperties{Appearance: "Clear colourless liquid"},
	ExposureLimits:     &entity.ExposureLimits{LongTerm: "0.02", Unit: "mg/m3"},
}

var salt = entity.SubstanceRecord{
	ChemicalName:       "Sodium chloride",
	CasNumber:          "7647-14-5",
	Hazards:            []entity.HazardEntry{{Code: "H319", Type: "Eye irritant"}},
	PhysicalProperties: &entity.PhysicalProperties{Appearance: "White crystalline solid"},
}

type fakeExtractor struct {
	records map[string]entity.SubstanceRecord
}

func (f *fakeExtractor) Extract(_ context.Context, doc entity.Document) (*entity.SubstanceRecord, error) {
	r, ok := f.records[doc.Name]
	if !ok {
		return nil, errors.New("unreadable document")
	}
	return &r, nil
}

type fakeEstimator struct {
	err error
}

func (f *fakeEstimator) EstimateLikelihood(_ context.Context, req entity.LikelihoodRequest) (*entity.LikelihoodEstimate, error) {
	if f.err != nil {
		return nil, f.err
	}
	l := entity.RouteLikelihood{Likelihood: 4, Rationale: "Daily use of " + req.Subject}
	return &entity.LikelihoodEstimate{Inhalation: l, Ingestion: entity.RouteLikelihood{Likelihood: 1}, SkinEye: l, Other: l}, nil
}

type fakeRepo struct {
	mu    sync.Mutex
	saved []*entity.Assessment
}

func (f *fakeRepo) SaveAssessment(_ context.Context, a *entity.Assessment) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, a)
	return a.ID, nil
}

type harness struct {
	t       *testing.T
	engine  *workflow.Engine
	repo    *fakeRepo
	est     *fakeEstimator
	session workflow.Session
	visited []workflow.StepID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &fakeRepo{}
	est := &fakeEstimator{}
	wf := New(Dependencies{
		Extractor: &fakeExtractor{records: map[string]entity.SubstanceRecord{
			"tdi.png":  tdi,
			"salt.png": salt,
			"a.png":    {ChemicalName: "Acetone", Hazards: []entity.HazardEntry{{Code: "H225", Type: "Flammable liquid and vapour"}}},
			"b.png":    {ChemicalName: "Xylene", Hazards: []entity.HazardEntry{{Code: "H226", Type: "Flammable liquid"}}},
			"c.png":    {ChemicalName: "Ethanol", Hazards: []entity.HazardEntry{{Code: "H225", Type: "Flammable liquid"}}},
		}},
		Estimator:   est,
		Assessments: repo,
		Timeout:     time.Second,
	}, log)

	e := workflow.NewEngine(memory.NewStateStore(), time.Hour, log)
	e.RegisterWorkflow(wf)

	return &harness{
		t:       t,
		engine:  e,
		repo:    repo,
		est:     est,
		session: workflow.Session{UserID: "u1", CompanyID: "c1", HiredAgentID: "agent-1", WorkflowID: WorkflowID},
	}
}

func (h *harness) send(in workflow.UserInput) (*workflow.TurnResult, *workflow.Transcript) {
	h.t.Helper()
	tr := &workflow.Transcript{}
	res, err := h.engine.HandleInput(context.Background(), h.session, in, tr)
	require.NoError(h.t, err)
	if len(h.visited) == 0 || h.visited[len(h.visited)-1] != res.Step {
		h.visited = append(h.visited, res.Step)
	}
	return res, tr
}

func (h *harness) text(s string) (*workflow.TurnResult, *workflow.Transcript) {
	h.t.Helper()
	return h.send(workflow.UserInput{Text: s})
}

func (h *harness) upload(name string) (*workflow.TurnResult, *workflow.Transcript) {
	h.t.Helper()
	return h.send(workflow.UserInput{Document: &entity.Document{Name: name, MimeType: "image/png", Data: []byte("img")}})
}

func (h *harness) state() *entity.WorkflowState {
	h.t.Helper()
	s, err := h.engine.GetState(context.Background(), h.session)
	require.NoError(h.t, err)
	return s
}

// answerContext walks usage, environment and worker questions.
func (h *harness) answerContext() {
	h.t.Helper()
	for _, a := range []string{
		"spraying foam insulation", "2 litres", "daily",
		"workshop", "LEV spray booth", "no", "20C",
		"3 workers", "2 hours", "breathing and skin contact", "gloves", "none",
	} {
		h.text(a)
	}
}

func assertMonotonic(t *testing.T, visited []workflow.StepID) {
	t.Helper()
	for i := 1; i < len(visited); i++ {
		assert.LessOrEqual(t, StepIndex(visited[i-1]), StepIndex(visited[i]), "step regressed: %v", visited)
	}
}

func TestEndToEnd_TDI(t *testing.T) {
	h := newHarness(t)

	res, tr := h.text("")
	assert.Equal(t, StepUploadSDS, res.Step)
	require.NotEmpty(t, tr.Messages)
	assert.Len(t, tr.Messages[0].Options, 3)

	h.text("1")
	_, tr = h.upload("tdi.png")
	assert.Contains(t, tr.Texts()[0], "Toluene Diisocyanate (TDI)")

	res, tr = h.text("no")
	assert.Equal(t, StepConfirmHazard, res.Step)
	assert.Contains(t, tr.Texts()[0], "H334")

	res, _ = h.text("yes")
	assert.Equal(t, StepUsageDetails, res.Step)
	assert.Equal(t, "Liquid", h.state().UsageData.SubstanceForm)

	h.answerContext()
	st := h.state()
	assert.Equal(t, StepControlVerification, st.CurrentStep)
	assert.Empty(t, st.EnvironmentData.TemperatureUnit)
	assert.Equal(t, 3, st.WorkerData.WorkerCount)
	assert.NotEmpty(t, st.RiskAssessments)
	assert.NotEmpty(t, st.HealthSurveillance)

	res, tr = h.text("confirm")
	assert.Equal(t, StepAPFCalculation, res.Step)

	h.text("0.1")
	res, tr = h.text("FFP3")
	assert.Equal(t, StepFinalReview, res.Step)
	assert.Contains(t, strings.Join(tr.Texts(), "\n"), "required APF 5")

	res, tr = h.text("yes")
	assert.True(t, res.Completed)
	assert.Contains(t, res.CompletedSteps, StepAPFCalculation)
	assert.Contains(t, strings.Join(tr.Texts(), "\n"), "COSHH Assessment: Toluene Diisocyanate (TDI) (1 substance(s), 0 process hazard(s), overall risk")
	assertMonotonic(t, h.visited)

	require.Len(t, h.repo.saved, 1)
	a := h.repo.saved[0]
	assert.Equal(t, "COSHH Assessment: Toluene Diisocyanate (TDI)", a.Title)
	assert.NotEmpty(t, a.OutputData.HealthSurveillanceRequirements)
	require.Len(t, a.OutputData.APFRequirements, 1)
	assert.True(t, a.OutputData.APFRequirements[0].CurrentRPEAdequate)
	assert.Equal(t, "agent-1", a.HiredAgentID)

	_, err := h.engine.GetState(context.Background(), h.session)
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestSkipsRespiratoryStepWithoutInhalationHazard(t *testing.T) {
	h := newHarness(t)

	h.text("sds")
	h.upload("salt.png")
	h.text("no")
	h.text("yes")
	assert.Equal(t, "Solid", h.state().UsageData.SubstanceForm)

	h.answerContext()
	res, _ := h.text("confirm")
	assert.Equal(t, StepFinalReview, res.Step)
	assert.NotContains(t, res.CompletedSteps, StepAPFCalculation)
	assert.NotContains(t, h.visited, StepAPFCalculation)
	assertMonotonic(t, h.visited)
}

func TestMultipleSubstances(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("a.png")
	h.text("yes")
	h.upload("b.png")
	h.text("yes")
	h.upload("c.png")
	res, tr := h.text("no")

	assert.Equal(t, StepConfirmHazard, res.Step)
	st := h.state()
	require.Len(t, st.SubstanceRecords, 3)
	summary := tr.Texts()[0]
	for _, name := range []string{"Acetone", "Xylene", "Ethanol"} {
		assert.Contains(t, summary, name)
	}
}

func TestDocumentWhileAwaitingAnswerCountsAsYes(t *testing.T) {
	h := newHarness(t)

	h.upload("a.png")
	h.upload("b.png")
	st := h.state()
	assert.Equal(t, entity.HazardSourceSDS, st.HazardSource)
	assert.Len(t, st.SubstanceRecords, 2)
	assert.True(t, st.AwaitingAdditionalSubstance)
}

func TestExtractionFailureKeepsStep(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	res, tr := h.upload("blurry.png")
	assert.Equal(t, StepUploadSDS, res.Step)
	assert.Equal(t, []string{msgExtractFail}, tr.Texts())

	st := h.state()
	assert.Empty(t, st.SubstanceRecords)
	assert.False(t, st.AwaitingAdditionalSubstance)
}

func TestUnclearYesNoReprompts(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("a.png")
	res, tr := h.text("perhaps")
	assert.Equal(t, StepUploadSDS, res.Step)
	assert.Equal(t, msgYesOrNo, tr.Texts()[0])
	assert.True(t, h.state().AwaitingAdditionalSubstance)
}

func TestProcessHazardSelection(t *testing.T) {
	h := newHarness(t)

	h.text("2")
	_, tr := h.text("knitting")
	assert.Equal(t, []string{msgNoMatch}, tr.Texts())

	_, tr = h.text("welding")
	st := h.state()
	require.NotNil(t, st.PendingSelection)
	assert.Len(t, st.PendingSelection.Candidates, 4)
	assert.Len(t, tr.Messages[0].Options, 4)

	_, tr = h.text("9")
	assert.Contains(t, tr.Texts()[0], "between 1 and 4")
	assert.NotNil(t, h.state().PendingSelection)

	h.send(workflow.UserInput{Callback: "wf:select:2"})
	st = h.state()
	assert.Nil(t, st.PendingSelection)
	require.Len(t, st.ProcessHazards, 1)
	assert.Equal(t, "Welding fume - stainless steel", st.ProcessHazards[0].Name)
	assert.True(t, st.AwaitingAdditionalProcessHazard)

	res, _ := h.text("no")
	assert.Equal(t, StepConfirmHazard, res.Step)
}

func TestProcessOnlyAssessment(t *testing.T) {
	h := newHarness(t)

	h.text("process")
	h.text("sanding oak worktops")
	h.text("no")
	h.text("yes")
	h.answerContext()
	h.text("confirm")
	h.text("unknown")
	h.text("none")
	res, _ := h.text("generate")

	require.True(t, res.Completed)
	a := h.repo.saved[0]
	assert.Equal(t, "COSHH Assessment: Hardwood dust", a.Title)
	assert.NotEmpty(t, a.OutputData.HealthSurveillanceRequirements)
	require.Len(t, a.OutputData.APFRequirements, 1)
	assert.Equal(t, 20, a.OutputData.APFRequirements[0].RequiredAPF)
	assert.False(t, a.OutputData.APFRequirements[0].CurrentRPEAdequate)
}

func TestBothSourcesAndCorrection(t *testing.T) {
	h := newHarness(t)

	h.text("3")
	h.upload("a.png")
	_, tr := h.text("no")
	assert.Equal(t, []string{msgDescribeTask}, tr.Texts())

	h.text("cutting concrete blocks")
	res, tr := h.text("no")
	assert.Equal(t, StepConfirmHazard, res.Step)
	assert.Contains(t, tr.Texts()[0], "Acetone")
	assert.Contains(t, tr.Texts()[0], "Respirable crystalline silica dust")

	h.text("no")
	res, _ = h.text("Acetone is used at 99% purity")
	assert.Equal(t, StepUsageDetails, res.Step)
	assert.Equal(t, []string{"Acetone is used at 99% purity"}, h.state().Corrections)
}

func TestEstimatorFailureFallsBackToDefaults(t *testing.T) {
	h := newHarness(t)
	h.est.err = errors.New("timeout")

	h.text("1")
	h.upload("tdi.png")
	h.text("no")
	h.text("yes")
	h.answerContext()

	st := h.state()
	require.NotEmpty(t, st.RiskAssessments)
	ra := st.RiskAssessments[0]
	assert.Equal(t, entity.EstimateDefault, ra.EstimateSource)
	assert.Equal(t, 3, ra.Route(entity.RouteInhalation).Likelihood)
}

func TestControlNotesDoNotAdvance(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("salt.png")
	h.text("no")
	h.text("yes")
	h.answerContext()

	res, _ := h.text("the LEV was last tested in 2023")
	assert.Equal(t, StepControlVerification, res.Step)
	st := h.state()
	assert.False(t, st.Validated)
	assert.Equal(t, []string{"the LEV was last tested in 2023"}, st.ControlNotes)

	res, _ = h.send(workflow.UserInput{Callback: "wf:confirm"})
	assert.Equal(t, StepFinalReview, res.Step)
}

func TestReEnteringCompletedStepDoesNotAdvance(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("salt.png")
	h.text("no")
	h.text("yes")
	st := h.state()
	before := len(st.CompletedSteps)

	h.text("")
	assert.Len(t, h.state().CompletedSteps, before)
}

func TestFailedAdditionalUploadKeepsQuestionOpen(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("a.png")
	res, tr := h.upload("blurry.png")
	assert.Equal(t, StepUploadSDS, res.Step)
	assert.Equal(t, []string{msgExtractFail}, tr.Texts())

	st := h.state()
	assert.True(t, st.AwaitingAdditionalSubstance)
	assert.Len(t, st.SubstanceRecords, 1)

	res, _ = h.text("no")
	assert.Equal(t, StepConfirmHazard, res.Step)
	assert.True(t, h.state().SubstancesFrozen)
}

func TestNoAfterAskingForAnotherSDSFreezesSubstances(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("a.png")
	_, tr := h.text("yes")
	assert.Equal(t, []string{msgUploadNext}, tr.Texts())

	_, tr = h.text("hmm, which one")
	assert.Equal(t, []string{msgUploadNext}, tr.Texts())

	res, _ := h.text("no")
	assert.Equal(t, StepConfirmHazard, res.Step)
	assert.Len(t, h.state().SubstanceRecords, 1)
}

func TestTemperatureWithoutUnitAsksForUnit(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("salt.png")
	h.text("no")
	h.text("yes")
	for _, a := range []string{"weighing salt", "1 kg", "weekly", "lab", "general ventilation", "no"} {
		h.text(a)
	}

	res, tr := h.text("20")
	assert.Equal(t, StepEnvironment, res.Step)
	assert.Equal(t, []string{"Is that in Celsius or Fahrenheit?"}, tr.Texts())

	res, _ = h.text("celsius")
	assert.Equal(t, StepWorkerExposure, res.Step)
	st := h.state()
	assert.Equal(t, "20", st.EnvironmentData.Temperature)
	assert.Equal(t, "C", st.EnvironmentData.TemperatureUnit)
}

func TestUnparseableWorkerCountIsZero(t *testing.T) {
	h := newHarness(t)

	h.text("1")
	h.upload("salt.png")
	h.text("no")
	h.text("yes")
	for _, a := range []string{"weighing salt", "1 kg", "weekly", "lab", "general ventilation", "no", "18C"} {
		h.text(a)
	}

	res, _ := h.text("lots")
	assert.Equal(t, StepWorkerExposure, res.Step)
	st := h.state()
	assert.Equal(t, "lots", st.WorkerData.WorkerCountText)
	assert.Equal(t, 0, st.WorkerData.WorkerCount)
}

func TestParseWorkerCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3 workers", 3},
		{"12", 12},
		{"lots", 0},
		{"about 4", 0},
		{"-2", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseWorkerCount(tt.in), tt.in)
	}
}

func TestFaceFitFollowsRespiratoryStep(t *testing.T) {
	state := &entity.WorkflowState{
		SubstanceRecords: []entity.SubstanceRecord{{
			ChemicalName: "Isopropanol",
			Hazards:      []entity.HazardEntry{{Code: "H335", Type: "STOT SE 3"}},
		}},
		WorkerData: entity.WorkerData{ExposureRoutes: []string{entity.RouteInhalation}},
	}
	require.True(t, NeedsRespiratoryProtection(state))

	var got []string
	for _, c := range resolveControls(state) {
		got = append(got, c.Code)
	}
	assert.Contains(t, got, controls.CodeRPEFaceFit)
}
