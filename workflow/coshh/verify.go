package coshh

import (
	"SafetyAgents/coshh/controls"
	"SafetyAgents/coshh/risk"
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"strings"
)

var confirmButtons = []workflow.InlineButton{
	{Text: "Confirm controls", Data: workflow.BuildCallback(workflow.ActionConfirm)},
}

type controlStep struct {
	w *Workflow
}

func (s *controlStep) ID() workflow.StepID { return StepControlVerification }

// Enter derives risk, controls and surveillance from everything captured so far.
func (s *controlStep) Enter(ctx context.Context, m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	state.RiskAssessments = s.w.assessRisks(ctx, state)
	state.ControlMeasures = resolveControls(state)
	state.HealthSurveillance = surveillance(state)

	text := riskSummary(state) + "\n" + controlSummary(state.ControlMeasures)
	if len(state.HealthSurveillance) > 0 {
		text += "\n" + surveillanceSummary(state.HealthSurveillance)
	}
	text += "\nPlease check these controls are in place. Reply confirm when verified, or send notes on anything missing."
	return workflow.StepResult{Error: m.SendInlineOptions(text, confirmButtons)}
}

func (s *controlStep) Complete(state *entity.WorkflowState) bool {
	return state.Validated
}

func (s *controlStep) HandleInput(_ context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	if workflow.IsConfirm(input) {
		state.Validated = true
		return workflow.StepResult{Advance: true}
	}

	note := strings.TrimSpace(input.Text)
	if note == "" {
		return workflow.StepResult{Error: m.SendInlineOptions("Reply confirm when the controls are verified.", confirmButtons)}
	}
	state.ControlNotes = append(state.ControlNotes, note)
	return workflow.StepResult{Error: m.SendInlineOptions("Noted. Reply confirm when the controls are verified.", confirmButtons)}
}

func riskSummary(state *entity.WorkflowState) string {
	var sb strings.Builder
	sb.WriteString("Risk assessment:\n")
	for _, ra := range state.RiskAssessments {
		sb.WriteString(fmt.Sprintf("- %s: %s (score %d)\n", ra.Subject, ra.OverallLevel, ra.OverallScore))
		for _, r := range ra.Routes {
			if r.Score == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s: severity %d x likelihood %d = %d\n", r.Route, r.Severity, r.Likelihood, r.Score))
		}
	}
	overall := risk.OverallScore(state.RiskAssessments)
	sb.WriteString(fmt.Sprintf("Overall risk rating: %s\n", risk.RiskRating(overall)))
	return sb.String()
}

func controlSummary(list []entity.ControlMeasure) string {
	var sb strings.Builder
	sb.WriteString("Control measures:\n")
	for _, g := range controls.GroupByHierarchy(list) {
		sb.WriteString(strings.ToUpper(string(g.Hierarchy)) + "\n")
		for _, c := range g.Controls {
			sb.WriteString("- " + c.Description)
			if c.Citation != "" {
				sb.WriteString(" [" + c.Citation + "]")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func surveillanceSummary(list []entity.HealthSurveillanceRequirement) string {
	var sb strings.Builder
	sb.WriteString("Health surveillance required:\n")
	for _, h := range list {
		sb.WriteString(fmt.Sprintf("- %s: %s (%s)\n", h.Substance, h.Frequency, h.LegalBasis))
	}
	return sb.String()
}
