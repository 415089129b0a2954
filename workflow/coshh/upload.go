package coshh

import (
	"SafetyAgents/entity"
	"SafetyAgents/internal/lib/sl"
	"SafetyAgents/workflow"
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// maxCandidates caps the numbered process hazard choices.
const maxCandidates = 5

const (
	msgChooseSource = "Welcome to the COSHH assessment. Where do the hazards come from?"
	msgUploadSDS    = "Please upload the Safety Data Sheet (a PDF, or a photo of the SDS pages with sections 1 to 3)."
	msgUploadNext   = "Please upload the next Safety Data Sheet."
	msgDescribeTask = "Describe the task that creates the hazard, for example \"MIG welding stainless steel\", \"sanding oak\" or \"cutting concrete blocks\"."
	msgExtractFail  = "Sorry, I couldn't read that Safety Data Sheet. Please try again with a clearer photo of the first pages, or the PDF from the supplier."
	msgMoreSDS      = "Are there other substances used at the same time in this task?"
	msgMoreProcess  = "Does the task create any other hazards?"
	msgYesOrNo      = "Please answer yes or no."
	msgNoMatch      = "I couldn't match that to a known process hazard. Try describing the activity and the material, for example \"welding galvanised steel\", \"sanding MDF\", \"soldering circuit boards\" or \"running a diesel forklift indoors\"."
)

var sourceButtons = []workflow.InlineButton{
	{Text: "Chemical products with a Safety Data Sheet", Data: workflow.BuildCallback(workflow.ActionSelect, string(entity.HazardSourceSDS))},
	{Text: "Hazards created by a process (fume, dust, exhaust)", Data: workflow.BuildCallback(workflow.ActionSelect, string(entity.HazardSourceProcess))},
	{Text: "Both", Data: workflow.BuildCallback(workflow.ActionSelect, string(entity.HazardSourceBoth))},
}

type uploadStep struct {
	w *Workflow
}

func (s *uploadStep) ID() workflow.StepID { return StepUploadSDS }

func (s *uploadStep) Enter(_ context.Context, m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	if state.HazardSource != "" {
		return workflow.StepResult{Error: s.promptPhase(m, state)}
	}
	return workflow.StepResult{Error: m.SendInlineOptions(workflow.FormatNumberedInline(msgChooseSource, sourceButtons), sourceButtons)}
}

func (s *uploadStep) Complete(state *entity.WorkflowState) bool {
	if state.HazardSource == "" || state.PendingSelection != nil {
		return false
	}
	if state.AwaitingAdditionalSubstance || state.AwaitingAdditionalProcessHazard {
		return false
	}
	if state.HazardSource.NeedsSDS() && (len(state.SubstanceRecords) == 0 || !state.SubstancesFrozen) {
		return false
	}
	if state.HazardSource.NeedsProcess() && (len(state.ProcessHazards) == 0 || !state.ProcessHazardsFrozen) {
		return false
	}
	return true
}

func (s *uploadStep) HandleInput(ctx context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	if state.HazardSource == "" {
		if input.Document == nil {
			return s.chooseSource(m, state, input)
		}
		// an SDS sent straight away implies an SDS assessment
		state.HazardSource = entity.HazardSourceSDS
	}

	switch {
	case state.PendingSelection != nil:
		return s.selectCandidate(m, state, input)
	case state.AwaitingAdditionalSubstance:
		return s.answerMoreSubstances(ctx, m, state, input)
	case state.AwaitingAdditionalProcessHazard:
		return s.answerMoreProcess(m, state, input)
	case state.HazardSource.NeedsSDS() && !state.SubstancesFrozen:
		if input.Document != nil {
			return s.extract(ctx, m, state, *input.Document)
		}
		if len(state.SubstanceRecords) > 0 {
			// the user said yes to another substance but may still back out
			if _, no := workflow.ParseYesNo(input); no {
				return s.freezeSubstances(m, state)
			}
		}
		return workflow.StepResult{Error: s.promptPhase(m, state)}
	case state.HazardSource.NeedsProcess() && !state.ProcessHazardsFrozen:
		return s.matchProcess(m, state, input.Text)
	}

	return workflow.StepResult{Advance: true}
}

func (s *uploadStep) chooseSource(m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	source := parseSource(input)
	if source == "" {
		return workflow.StepResult{Error: m.SendInlineOptions(workflow.FormatNumberedInline(msgChooseSource, sourceButtons), sourceButtons)}
	}
	state.HazardSource = source
	return workflow.StepResult{Error: s.promptPhase(m, state)}
}

func parseSource(input workflow.UserInput) entity.HazardSource {
	if cb := workflow.ParseCallback(input.Callback); cb != nil && cb.Action == workflow.ActionSelect {
		switch source := entity.HazardSource(cb.Value); source {
		case entity.HazardSourceSDS, entity.HazardSourceProcess, entity.HazardSourceBoth:
			return source
		}
		return ""
	}
	if n := workflow.MatchNumber(input, len(sourceButtons)); n > 0 {
		return entity.HazardSource(workflow.ParseCallback(sourceButtons[n-1].Data).Value)
	}
	text := strings.ToLower(strings.TrimSpace(input.Text))
	switch {
	case strings.Contains(text, "both"):
		return entity.HazardSourceBoth
	case text == "sds" || strings.Contains(text, "safety data") || strings.Contains(text, "chemical"):
		return entity.HazardSourceSDS
	case strings.Contains(text, "process"):
		return entity.HazardSourceProcess
	}
	return ""
}

// promptPhase asks for whatever the hazard capture is waiting for.
func (s *uploadStep) promptPhase(m workflow.Messenger, state *entity.WorkflowState) error {
	switch {
	case state.HazardSource.NeedsSDS() && !state.SubstancesFrozen:
		if len(state.SubstanceRecords) > 0 {
			return m.SendText(msgUploadNext)
		}
		return m.SendText(msgUploadSDS)
	case state.HazardSource.NeedsProcess() && !state.ProcessHazardsFrozen:
		return m.SendText(msgDescribeTask)
	}
	return nil
}

func (s *uploadStep) extract(ctx context.Context, m workflow.Messenger, state *entity.WorkflowState, doc entity.Document) workflow.StepResult {
	if s.w.deps.Extractor == nil {
		return workflow.StepResult{Error: fmt.Errorf("no extractor configured")}
	}

	callCtx, cancel := s.w.withTimeout(ctx)
	defer cancel()

	record, err := s.w.deps.Extractor.Extract(callCtx, doc)
	if err == nil && (record == nil || strings.TrimSpace(record.ChemicalName) == "") {
		err = fmt.Errorf("extraction returned no chemical name")
	}
	if err != nil {
		s.w.log.Warn("sds extraction failed",
			slog.String("key", state.Key),
			slog.String("document", doc.Name),
			sl.Err(err),
		)
		return workflow.StepResult{Error: m.SendText(msgExtractFail)}
	}

	state.SubstanceRecords = append(state.SubstanceRecords, *record)
	state.AwaitingAdditionalSubstance = true

	text := fmt.Sprintf("I've read the SDS for %s%s.\n%s", record.ChemicalName, casSuffix(record.CasNumber), msgMoreSDS)
	return workflow.StepResult{Error: m.SendInlineOptions(text, workflow.YesNoButtons())}
}

func (s *uploadStep) answerMoreSubstances(ctx context.Context, m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	if input.Document != nil {
		return s.extract(ctx, m, state, *input.Document)
	}

	yes, no := workflow.ParseYesNo(input)
	switch {
	case yes:
		state.AwaitingAdditionalSubstance = false
		return workflow.StepResult{Error: m.SendText(msgUploadNext)}
	case no:
		return s.freezeSubstances(m, state)
	}
	return workflow.StepResult{Error: m.SendInlineOptions(msgYesOrNo, workflow.YesNoButtons())}
}

func (s *uploadStep) freezeSubstances(m workflow.Messenger, state *entity.WorkflowState) workflow.StepResult {
	state.AwaitingAdditionalSubstance = false
	state.SubstancesFrozen = true
	if state.HazardSource.NeedsProcess() && !state.ProcessHazardsFrozen {
		return workflow.StepResult{Error: m.SendText(msgDescribeTask)}
	}
	return workflow.StepResult{Advance: true}
}

func (s *uploadStep) answerMoreProcess(m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	yes, no := workflow.ParseYesNo(input)
	switch {
	case yes:
		state.AwaitingAdditionalProcessHazard = false
		return workflow.StepResult{Error: m.SendText(msgDescribeTask)}
	case no:
		state.AwaitingAdditionalProcessHazard = false
		state.ProcessHazardsFrozen = true
		return workflow.StepResult{Advance: true}
	}
	return workflow.StepResult{Error: m.SendInlineOptions(msgYesOrNo, workflow.YesNoButtons())}
}

func (s *uploadStep) matchProcess(m workflow.Messenger, state *entity.WorkflowState, text string) workflow.StepResult {
	candidates := s.w.deps.Catalog.SearchByKeyword(text)
	switch len(candidates) {
	case 0:
		return workflow.StepResult{Error: m.SendText(msgNoMatch)}
	case 1:
		return addProcessHazard(m, state, candidates[0])
	}

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	state.PendingSelection = &entity.PendingSelection{Candidates: candidates, PromptedAt: s.w.now()}

	buttons := make([]workflow.InlineButton, 0, len(candidates))
	for i, c := range candidates {
		buttons = append(buttons, workflow.InlineButton{
			Text: c.Name,
			Data: workflow.BuildCallback(workflow.ActionSelect, fmt.Sprint(i+1)),
		})
	}
	return workflow.StepResult{Error: m.SendInlineOptions(workflow.FormatNumberedInline("Which of these best matches the task?", buttons), buttons)}
}

func (s *uploadStep) selectCandidate(m workflow.Messenger, state *entity.WorkflowState, input workflow.UserInput) workflow.StepResult {
	n := len(state.PendingSelection.Candidates)
	choice := workflow.MatchNumber(input, n)
	if choice == 0 {
		return workflow.StepResult{Error: m.SendText(fmt.Sprintf("Please reply with a number between 1 and %d.", n))}
	}
	selected := state.PendingSelection.Candidates[choice-1]
	state.PendingSelection = nil
	return addProcessHazard(m, state, selected)
}

func addProcessHazard(m workflow.Messenger, state *entity.WorkflowState, h entity.ProcessGeneratedHazard) workflow.StepResult {
	state.ProcessHazards = append(state.ProcessHazards, h)
	state.AwaitingAdditionalProcessHazard = true
	text := fmt.Sprintf("Added process hazard: %s.\n%s", h.Name, msgMoreProcess)
	return workflow.StepResult{Error: m.SendInlineOptions(text, workflow.YesNoButtons())}
}

func casSuffix(cas string) string {
	if cas == "" {
		return ""
	}
	return " (CAS " + cas + ")"
}
