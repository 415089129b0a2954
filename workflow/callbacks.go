package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

// Callback action constants
const (
	CallbackPrefix = "wf:"
	ActionYes      = "yes"
	ActionNo       = "no"
	ActionConfirm  = "confirm"
	ActionSelect   = "select"
)

// CallbackData represents parsed callback data.
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses a callback data string.
// Format: "wf:action:value" or "wf:action"
func ParseCallback(data string) *CallbackData {
	if !strings.HasPrefix(data, CallbackPrefix) {
		return nil
	}

	data = strings.TrimPrefix(data, CallbackPrefix)
	parts := strings.SplitN(data, ":", 2)

	cb := &CallbackData{
		Action: parts[0],
	}

	if len(parts) > 1 {
		cb.Value = parts[1]
	}

	return cb
}

// BuildCallback creates a callback data string.
func BuildCallback(action string, value ...string) string {
	if len(value) > 0 && value[0] != "" {
		return CallbackPrefix + action + ":" + value[0]
	}
	return CallbackPrefix + action
}

// YesNoButtons is the standard yes/no inline keyboard.
func YesNoButtons() []InlineButton {
	return []InlineButton{
		{Text: "Yes", Data: BuildCallback(ActionYes)},
		{Text: "No", Data: BuildCallback(ActionNo)},
	}
}

var (
	yesWords = map[string]bool{"yes": true, "y": true, "yeah": true, "yep": true, "sure": true, "ok": true, "okay": true, "correct": true}
	noWords  = map[string]bool{"no": true, "n": true, "nope": true, "none": true, "no more": true, "done": true, "that's all": true, "thats all": true}
)

// ParseYesNo interprets a yes/no answer from a callback or text.
// Both results are false when the input is neither.
func ParseYesNo(input UserInput) (yes, no bool) {
	if cb := ParseCallback(input.Callback); cb != nil {
		return cb.Action == ActionYes, cb.Action == ActionNo
	}
	text := normalizeAnswer(input.Text)
	return yesWords[text], noWords[text]
}

// IsConfirm reports an explicit confirmation: the confirm callback or the words confirm/yes.
func IsConfirm(input UserInput) bool {
	if cb := ParseCallback(input.Callback); cb != nil {
		return cb.Action == ActionConfirm || cb.Action == ActionYes
	}
	text := normalizeAnswer(input.Text)
	return text == ActionConfirm || text == "confirmed" || yesWords[text]
}

func normalizeAnswer(text string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(text)), ".!")
}

// FormatNumberedInline creates a numbered text list from inline buttons.
func FormatNumberedInline(text string, buttons []InlineButton) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n")

	for i, btn := range buttons {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, btn.Text))
	}
	sb.WriteString("\nReply with the number of your choice.")
	return sb.String()
}

// MatchNumber converts a number string or a select callback to a 1-based
// index in [1, n]. It returns 0 when the input does not select anything.
func MatchNumber(input UserInput, n int) int {
	value := strings.TrimSpace(input.Text)
	if cb := ParseCallback(input.Callback); cb != nil && cb.Action == ActionSelect {
		value = cb.Value
	}
	num, err := strconv.Atoi(strings.TrimSuffix(value, "."))
	if err != nil || num < 1 || num > n {
		return 0
	}
	return num
}
