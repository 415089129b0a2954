package workflow

import "SafetyAgents/entity"

// Messenger is the UI adapter used by steps to talk to the user.
type Messenger interface {
	SendText(text string) error
	SendInlineOptions(text string, buttons []InlineButton) error
}

// InlineButton represents an inline button with callback data.
type InlineButton struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

// UserInput represents a normalized event from the transport.
type UserInput struct {
	Text     string           // Regular message text
	Callback string           // Inline button press
	Document *entity.Document // Uploaded file
}

// Empty reports whether the input carries nothing.
func (u UserInput) Empty() bool {
	return u.Text == "" && u.Callback == "" && u.Document == nil
}

// Message is one outgoing message collected by a Transcript.
type Message struct {
	Text    string         `json:"text"`
	Options []InlineButton `json:"options,omitempty"`
}

// Transcript is a Messenger that records messages for a request/response transport.
type Transcript struct {
	Messages []Message
}

func (t *Transcript) SendText(text string) error {
	t.Messages = append(t.Messages, Message{Text: text})
	return nil
}

func (t *Transcript) SendInlineOptions(text string, buttons []InlineButton) error {
	t.Messages = append(t.Messages, Message{Text: text, Options: buttons})
	return nil
}

// Texts returns the text of every recorded message.
func (t *Transcript) Texts() []string {
	out := make([]string, 0, len(t.Messages))
	for _, m := range t.Messages {
		out = append(out, m.Text)
	}
	return out
}
