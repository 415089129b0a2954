package entity

import (
	"SafetyAgents/internal/lib/validate"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

type HttpDocument struct {
	Name     string `json:"name" validate:"omitempty"`
	MimeType string `json:"mime_type" validate:"required"`
	Data     string `json:"data" validate:"required,base64"`
}

// HttpTurn is one user turn posted to the COSHH agent.
type HttpTurn struct {
	HiredAgentID string        `json:"hired_agent_id" validate:"required"`
	Message      string        `json:"message" validate:"omitempty,max=4000"`
	Callback     string        `json:"callback" validate:"omitempty"`
	Document     *HttpDocument `json:"document" validate:"omitempty"`
}

func (t *HttpTurn) Bind(_ *http.Request) error {
	if err := validate.Struct(t); err != nil {
		return err
	}
	if strings.TrimSpace(t.Message) == "" && t.Callback == "" && t.Document == nil {
		return errors.New("message, callback or document is required")
	}
	return nil
}

// DecodeDocument returns the uploaded document, or nil when the turn has none.
func (t *HttpTurn) DecodeDocument() (*Document, error) {
	if t.Document == nil {
		return nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(t.Document.Data)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:     t.Document.Name,
		MimeType: t.Document.MimeType,
		Data:     data,
	}, nil
}
