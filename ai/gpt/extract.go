package gpt

import (
	"SafetyAgents/entity"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/sashabaranov/go-openai"
)

// maxDocumentText bounds the text layer sent for one document.
const maxDocumentText = 60000

const extractPrompt = `You read Safety Data Sheets. Return only a JSON object with these fields:
{
  "chemical_name": string,
  "cas_number": string,
  "supplier": string,
  "hazards": [{"code": "H-code", "type": string, "hazard_class": string, "pictogram": string, "signal_word": string}],
  "precautionary_codes": ["P-code", ...],
  "physical_properties": {"appearance": string, "odour": string, "boiling_point": string, "flash_point": string, "vapour_pressure": string},
  "exposure_limits": {"long_term": string, "short_term": string, "unit": string},
  "first_aid": string,
  "storage_requirements": string,
  "disposal_guidance": string
}
Use the product name from section 1 and the classification from section 2. Combined P-codes keep the plus sign (P305+P351+P338).
Exposure limits are the UK WEL 8-hour TWA (long_term) and 15-minute STEL (short_term) from section 8. Leave unknown fields empty.`

// Extract reads an SDS image, PDF or text document into a substance record.
func (a *Advisor) Extract(ctx context.Context, doc entity.Document) (*entity.SubstanceRecord, error) {
	part, err := documentPart(doc)
	if err != nil {
		return nil, err
	}

	content, err := a.complete(ctx, a.visionModel, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: extractPrompt},
		{Role: openai.ChatMessageRoleUser, MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: "Extract the hazard data from this Safety Data Sheet."},
			part,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Name, err)
	}

	var record entity.SubstanceRecord
	if err = json.Unmarshal([]byte(content), &record); err != nil {
		return nil, fmt.Errorf("decode extraction of %s: %w", doc.Name, err)
	}
	record.ChemicalName = strings.TrimSpace(record.ChemicalName)
	if record.ChemicalName == "" {
		return nil, fmt.Errorf("extraction of %s has no chemical name", doc.Name)
	}
	return &record, nil
}

func documentPart(doc entity.Document) (openai.ChatMessagePart, error) {
	mime := strings.ToLower(doc.MimeType)
	switch {
	case len(doc.Data) == 0:
		return openai.ChatMessagePart{}, fmt.Errorf("%w: empty document", ErrUnsupportedDocument)
	case strings.HasPrefix(mime, "image/"):
		url := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)
		return openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: url, Detail: openai.ImageURLDetailHigh},
		}, nil
	case mime == "application/pdf":
		text, err := pdfText(doc.Data)
		if err != nil {
			return openai.ChatMessagePart{}, fmt.Errorf("%w: %s: %v", ErrUnsupportedDocument, doc.Name, err)
		}
		return textPart(text), nil
	case strings.HasPrefix(mime, "text/"):
		return textPart(string(doc.Data)), nil
	}
	return openai.ChatMessagePart{}, fmt.Errorf("%w: %s", ErrUnsupportedDocument, doc.MimeType)
}

func textPart(text string) openai.ChatMessagePart {
	if len(text) > maxDocumentText {
		text = text[:maxDocumentText]
	}
	return openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: text}
}

// pdfText returns the text layer of a PDF. Scanned PDFs have none and fail.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("pdf has no text layer")
	}
	return text, nil
}
