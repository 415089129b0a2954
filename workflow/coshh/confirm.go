package coshh

import (
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"strings"
)

type confirmStep struct{}

func (s *confirmStep) ID() workflow.StepID { return StepConfirmHazard }

func (s *confirmStep) Enter(_ context.Context, m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	text := hazardSummary(state) + "\nIs this information correct?"
	return workflow.StepResult{Error: m.SendInlineOptions(text, workflow.YesNoButtons())}
}

func (s *confirmStep) Complete(state *entity.WorkflowState) bool {
	return state.HazardConfirmed
}

func (s *confirmStep) HandleInput(_ context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	if state.AwaitingCorrection {
		correction := strings.TrimSpace(input.Text)
		if correction == "" {
			return workflow.StepResult{Error: m.SendText("Please describe what needs correcting.")}
		}
		state.Corrections = append(state.Corrections, correction)
		state.AwaitingCorrection = false
		state.HazardConfirmed = true
		return workflow.StepResult{Advance: true, Error: m.SendText("Thanks, the correction has been recorded with the assessment.")}
	}

	yes, no := workflow.ParseYesNo(input)
	switch {
	case yes:
		state.HazardConfirmed = true
		return workflow.StepResult{Advance: true}
	case no:
		state.AwaitingCorrection = true
		return workflow.StepResult{Error: m.SendText("What needs correcting?")}
	}
	return workflow.StepResult{Error: m.SendInlineOptions("Please answer yes if the hazard information is correct, or no to add a correction.", workflow.YesNoButtons())}
}

// hazardSummary lists every captured substance and process hazard.
func hazardSummary(state *entity.WorkflowState) string {
	var sb strings.Builder
	if len(state.SubstanceRecords) > 0 {
		sb.WriteString("Substances:\n")
		for i := range state.SubstanceRecords {
			r := &state.SubstanceRecords[i]
			sb.WriteString(fmt.Sprintf("%d. %s%s", i+1, r.ChemicalName, casSuffix(r.CasNumber)))
			if codes := r.HazardCodes(); len(codes) > 0 {
				sb.WriteString(" - " + strings.Join(codes, ", "))
			}
			if types := r.HazardTypes(); len(types) > 0 {
				sb.WriteString(" (" + strings.Join(types, "; ") + ")")
			}
			sb.WriteString("\n")
		}
	}
	if len(state.ProcessHazards) > 0 {
		sb.WriteString("Process hazards:\n")
		for i, p := range state.ProcessHazards {
			sb.WriteString(fmt.Sprintf("%d. %s", i+1, p.Name))
			if p.WEL != "" {
				sb.WriteString(" (WEL " + p.WEL + ")")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
