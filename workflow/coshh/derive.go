package coshh

import (
	"SafetyAgents/coshh/controls"
	"SafetyAgents/coshh/reference"
	"SafetyAgents/coshh/risk"
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// estimateConcurrency limits parallel advisor calls per turn.
const estimateConcurrency = 4

type subject struct {
	name       string
	kind       string
	severities entity.RouteSeverities
	request    entity.LikelihoodRequest
}

func subjects(state *entity.WorkflowState) []subject {
	base := entity.LikelihoodRequest{
		SubstanceForm:    state.UsageData.SubstanceForm,
		TaskDescription:  state.UsageData.Purpose,
		Quantity:         state.UsageData.Quantity,
		Frequency:        state.UsageData.Frequency,
		Duration:         state.WorkerData.ExposureDuration,
		Location:         state.EnvironmentData.Location,
		Ventilation:      state.EnvironmentData.Ventilation,
		ConfinedSpace:    state.EnvironmentData.IsConfinedSpace,
		Temperature:      temperatureText(state.EnvironmentData),
		WorkerCount:      state.WorkerData.WorkerCount,
		ExposureRoutes:   state.WorkerData.ExposureRoutes,
		ExistingControls: state.WorkerData.ExistingControls,
	}

	var out []subject
	for i := range state.SubstanceRecords {
		r := &state.SubstanceRecords[i]
		sev := reference.SeveritiesForCodes(r.HazardCodes())
		req := base
		req.Subject = r.ChemicalName
		req.SubjectType = entity.SubjectSubstance
		req.HazardTypes = r.HazardTypes()
		req.Appearance = r.Appearance()
		req.Severities = sev
		out = append(out, subject{name: r.ChemicalName, kind: entity.SubjectSubstance, severities: sev, request: req})
	}
	for i := range state.ProcessHazards {
		p := &state.ProcessHazards[i]
		req := base
		req.Subject = p.Name
		req.SubjectType = entity.SubjectProcess
		req.HazardTypes = p.HazardTypes()
		req.Severities = p.Severity
		out = append(out, subject{name: p.Name, kind: entity.SubjectProcess, severities: p.Severity, request: req})
	}
	return out
}

func temperatureText(e entity.EnvironmentData) string {
	if e.TemperatureUnit == "" {
		return e.Temperature
	}
	return e.Temperature + " " + e.TemperatureUnit
}

// assessRisks scores every subject. Advisor failures fall back to default likelihoods.
func (w *Workflow) assessRisks(ctx context.Context, state *entity.WorkflowState) []entity.RiskAssessment {
	list := subjects(state)
	results := make([]entity.RiskAssessment, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(estimateConcurrency)
	for i, s := range list {
		g.Go(func() error {
			est := w.estimate(gctx, state.Key, s)
			results[i] = risk.Assess(s.name, s.kind, s.severities, est)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (w *Workflow) estimate(ctx context.Context, key string, s subject) entity.LikelihoodEstimate {
	if w.deps.Estimator == nil {
		return risk.DefaultLikelihood(s.severities)
	}

	callCtx, cancel := w.withTimeout(ctx)
	defer cancel()

	est, err := w.deps.Estimator.EstimateLikelihood(callCtx, s.request)
	if err != nil || est == nil {
		w.log.Warn("likelihood estimation failed, using defaults",
			slog.String("key", key),
			slog.String("subject", s.name),
			sl.Err(err),
		)
		return risk.DefaultLikelihood(s.severities)
	}
	if est.Source == "" {
		est.Source = entity.EstimateAdvisor
	}
	return *est
}

// resolveControls merges controls across all substances and process hazards.
func resolveControls(state *entity.WorkflowState) []entity.ControlMeasure {
	ctxFor := func(codes, types []string, inhalation bool) controls.Context {
		return controls.Context{
			PrecautionaryCodes: codes,
			HazardTypes:        types,
			InhalationHazard:   inhalation,
			Ventilation:        state.EnvironmentData.Ventilation,
			ConfinedSpace:      state.EnvironmentData.IsConfinedSpace,
			ExposureRoutes:     state.WorkerData.ExposureRoutes,
		}
	}

	var lists [][]entity.ControlMeasure
	for i := range state.SubstanceRecords {
		r := &state.SubstanceRecords[i]
		lists = append(lists, controls.Resolve(ctxFor(r.PrecautionaryCodes, r.HazardTypes(), reference.SubstanceHasInhalationHazard(r))))
	}
	for i := range state.ProcessHazards {
		p := &state.ProcessHazards[i]
		lists = append(lists, controls.ForProcess(*p), controls.Resolve(ctxFor(nil, p.HazardTypes(), reference.ProcessHasInhalationHazard(p))))
	}
	for _, ra := range state.RiskAssessments {
		lists = append(lists, additionalControls(ra))
	}
	return controls.Merge(lists...)
}

func additionalControls(ra entity.RiskAssessment) []entity.ControlMeasure {
	out := make([]entity.ControlMeasure, 0, len(ra.AdditionalControlsRequired))
	for _, c := range ra.AdditionalControlsRequired {
		out = append(out, entity.ControlMeasure{
			Code:        "RISK-" + c,
			Description: c,
			Hierarchy:   entity.HierarchyEngineering,
			Source:      entity.SourceContext,
		})
	}
	return out
}

// surveillance returns the surveillance requirements of all subjects, one per listed substance.
func surveillance(state *entity.WorkflowState) []entity.HealthSurveillanceRequirement {
	seen := make(map[string]bool)
	var out []entity.HealthSurveillanceRequirement
	add := func(req *entity.HealthSurveillanceRequirement) {
		if req == nil || seen[req.Substance] {
			return
		}
		seen[req.Substance] = true
		out = append(out, *req)
	}
	for _, r := range state.SubstanceRecords {
		add(reference.SurveillanceFor(r.ChemicalName, r.CasNumber))
	}
	for _, p := range state.ProcessHazards {
		add(reference.SurveillanceFor(p.Name, ""))
	}
	return out
}
