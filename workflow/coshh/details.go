package coshh

import (
	"SafetyAgents/coshh/controls"
	"SafetyAgents/entity"
	"SafetyAgents/workflow"
	"regexp"
	"strconv"
	"strings"
)

var (
	// temperature already carries a unit: trailing C, F or a degree sign
	temperatureUnit = regexp.MustCompile(`(?i)(°\s*[cf]?|\d\s*[cf]|celsius|fahrenheit)\s*\.?$`)
	hasDigit        = regexp.MustCompile(`\d`)
	leadingInt      = regexp.MustCompile(`^[+-]?\d+`)
)

// substance forms recognised in SDS appearance text, in match order
var substanceForms = []struct {
	keyword string
	form    string
}{
	{"liquid", "Liquid"},
	{"gas", "Gas"},
	{"powder", "Powder"},
	{"solid", "Solid"},
}

const defaultSubstanceForm = "Liquid"

// SubstanceForm derives the physical form from an appearance description.
func SubstanceForm(appearance string) string {
	lower := strings.ToLower(appearance)
	for _, f := range substanceForms {
		if strings.Contains(lower, f.keyword) {
			return f.form
		}
	}
	return defaultSubstanceForm
}

// ParseWorkerCount reads a leading integer and falls back to 0.
func ParseWorkerCount(text string) int {
	n, err := strconv.Atoi(leadingInt.FindString(strings.TrimSpace(text)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func isYesAnswer(text string) bool {
	yes, _ := workflow.ParseYesNo(workflow.UserInput{Text: text})
	return yes || strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "yes")
}

var usageFields = []FieldSchema{
	{
		Name:   "purpose",
		Prompt: "What is the substance used for? Describe the task.",
		Value:  func(s *entity.WorkflowState) string { return s.UsageData.Purpose },
		Apply:  func(s *entity.WorkflowState, v string) { s.UsageData.Purpose = v },
	},
	{
		Name:   "quantity",
		Prompt: "How much is used per task (for example 500 ml, 5 kg)?",
		Value:  func(s *entity.WorkflowState) string { return s.UsageData.Quantity },
		Apply:  func(s *entity.WorkflowState, v string) { s.UsageData.Quantity = v },
	},
	{
		Name:   "frequency",
		Prompt: "How often is the task carried out (daily, weekly, occasionally)?",
		Value:  func(s *entity.WorkflowState) string { return s.UsageData.Frequency },
		Apply:  func(s *entity.WorkflowState, v string) { s.UsageData.Frequency = v },
	},
}

func newUsageStep() *fieldStep {
	return &fieldStep{
		id:     StepUsageDetails,
		intro:  "Now some questions about how the substances are used.",
		fields: usageFields,
		prepare: func(state *entity.WorkflowState) {
			if state.UsageData.SubstanceForm != "" {
				return
			}
			if p := state.PrimarySubstance(); p != nil {
				state.UsageData.SubstanceForm = SubstanceForm(p.Appearance())
				state.UsageData.SubstanceFormPrefilled = true
			}
		},
	}
}

var environmentFields = []FieldSchema{
	{
		Name:   "location",
		Prompt: "Where is the work carried out (workshop, outdoors, customer site)?",
		Value:  func(s *entity.WorkflowState) string { return s.EnvironmentData.Location },
		Apply:  func(s *entity.WorkflowState, v string) { s.EnvironmentData.Location = v },
	},
	{
		Name:   "ventilation",
		Prompt: "What ventilation is there (general/natural ventilation, LEV, on-tool extraction, none)?",
		Value:  func(s *entity.WorkflowState) string { return s.EnvironmentData.Ventilation },
		Apply:  func(s *entity.WorkflowState, v string) { s.EnvironmentData.Ventilation = v },
	},
	{
		Name:   "confined_space",
		Prompt: "Is the work done in a confined space? (yes/no)",
		Value:  func(s *entity.WorkflowState) string { return s.EnvironmentData.ConfinedSpace },
		Apply: func(s *entity.WorkflowState, v string) {
			s.EnvironmentData.ConfinedSpace = v
			s.EnvironmentData.IsConfinedSpace = isYesAnswer(v)
		},
	},
	{
		Name:   "temperature",
		Prompt: "What is the typical working temperature?",
		Value:  func(s *entity.WorkflowState) string { return s.EnvironmentData.Temperature },
		Apply:  func(s *entity.WorkflowState, v string) { s.EnvironmentData.Temperature = v },
	},
	{
		Name:   "temperature_unit",
		Prompt: "Is that in Celsius or Fahrenheit?",
		Value:  func(s *entity.WorkflowState) string { return s.EnvironmentData.TemperatureUnit },
		Apply:  func(s *entity.WorkflowState, v string) { s.EnvironmentData.TemperatureUnit = normalizeUnit(v) },
		Skip: func(s *entity.WorkflowState) bool {
			t := s.EnvironmentData.Temperature
			return !hasDigit.MatchString(t) || temperatureUnit.MatchString(t)
		},
	},
}

func normalizeUnit(v string) string {
	switch lower := strings.ToLower(strings.TrimSpace(v)); {
	case strings.HasPrefix(lower, "c"):
		return "C"
	case strings.HasPrefix(lower, "f"):
		return "F"
	default:
		return v
	}
}

func newEnvironmentStep() *fieldStep {
	return &fieldStep{
		id:     StepEnvironment,
		intro:  "Next, the work environment.",
		fields: environmentFields,
	}
}

var workerFields = []FieldSchema{
	{
		Name:   "worker_count",
		Prompt: "How many workers are exposed?",
		Value:  func(s *entity.WorkflowState) string { return s.WorkerData.WorkerCountText },
		Apply: func(s *entity.WorkflowState, v string) {
			s.WorkerData.WorkerCountText = v
			s.WorkerData.WorkerCount = ParseWorkerCount(v)
		},
	},
	{
		Name:   "exposure_duration",
		Prompt: "How long is each worker exposed per shift?",
		Value:  func(s *entity.WorkflowState) string { return s.WorkerData.ExposureDuration },
		Apply:  func(s *entity.WorkflowState, v string) { s.WorkerData.ExposureDuration = v },
	},
	{
		Name:   "exposure_routes",
		Prompt: "How could workers be exposed (breathing in, skin or eye contact, swallowing)?",
		Value:  func(s *entity.WorkflowState) string { return s.WorkerData.ExposureRoutesRaw },
		Apply: func(s *entity.WorkflowState, v string) {
			s.WorkerData.ExposureRoutesRaw = v
			s.WorkerData.ExposureRoutes = controls.ParseRoutes(v)
		},
	},
	{
		Name:   "existing_controls",
		Prompt: "What controls are already in place (extraction, gloves, RPE, training)?",
		Value:  func(s *entity.WorkflowState) string { return s.WorkerData.ExistingControls },
		Apply:  func(s *entity.WorkflowState, v string) { s.WorkerData.ExistingControls = v },
	},
	{
		Name:   "vulnerable_workers",
		Prompt: "Are any vulnerable workers involved (young workers, new or expectant mothers, people with asthma)?",
		Value:  func(s *entity.WorkflowState) string { return s.WorkerData.VulnerableWorkers },
		Apply:  func(s *entity.WorkflowState, v string) { s.WorkerData.VulnerableWorkers = v },
	},
}

func newWorkerStep() *fieldStep {
	return &fieldStep{
		id:     StepWorkerExposure,
		intro:  "Finally, about the workers.",
		fields: workerFields,
	}
}
