package coshh

import (
	"SafetyAgents/coshh/assembly"
	"SafetyAgents/coshh/risk"
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"strings"
)

var reviewButtons = []workflow.InlineButton{
	{Text: "Generate assessment", Data: workflow.BuildCallback(workflow.ActionConfirm)},
}

type reviewStep struct{}

func (s *reviewStep) ID() workflow.StepID { return StepFinalReview }

func (s *reviewStep) Enter(_ context.Context, m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	var sb strings.Builder
	sb.WriteString(assembly.Title(state) + "\n\n")
	sb.WriteString(hazardSummary(state))
	sb.WriteString(fmt.Sprintf("\nOverall risk rating: %s\n", risk.RiskRating(risk.OverallScore(state.RiskAssessments))))
	sb.WriteString(fmt.Sprintf("Control measures: %d\n", len(state.ControlMeasures)))
	sb.WriteString(fmt.Sprintf("Health surveillance requirements: %d\n", len(state.HealthSurveillance)))
	if len(state.APFRequirements) > 0 {
		sb.WriteString(fmt.Sprintf("Respiratory protection requirements: %d\n", len(state.APFRequirements)))
	}
	sb.WriteString("\nReply yes to generate the assessment, or send any notes to add first.")
	return workflow.StepResult{Error: m.SendInlineOptions(sb.String(), reviewButtons)}
}

func (s *reviewStep) Complete(state *entity.WorkflowState) bool {
	return state.ReviewConfirmed
}

func (s *reviewStep) HandleInput(_ context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	if workflow.IsConfirm(input) || strings.EqualFold(strings.TrimSpace(input.Text), "generate") {
		state.ReviewConfirmed = true
		return workflow.StepResult{Advance: true}
	}

	note := strings.TrimSpace(input.Text)
	if note == "" {
		return workflow.StepResult{Error: m.SendInlineOptions("Reply yes to generate the assessment.", reviewButtons)}
	}
	state.ReviewNotes = append(state.ReviewNotes, note)
	return workflow.StepResult{Error: m.SendInlineOptions("Note added. Reply yes to generate the assessment.", reviewButtons)}
}
