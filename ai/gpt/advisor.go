package gpt

import (
	"SafetyAgents/internal/config"
	"SafetyAgents/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

var ErrUnsupportedDocument = errors.New("unsupported document type")

// Advisor calls OpenAI chat models for SDS extraction and likelihood estimation.
type Advisor struct {
	client      *openai.Client
	model       string
	visionModel string
	log         *slog.Logger
}

func NewAdvisor(conf *config.Config, logger *slog.Logger) *Advisor {
	return NewAdvisorWithClient(
		openai.NewClient(conf.OpenAI.ApiKey),
		conf.OpenAI.Model,
		conf.OpenAI.VisionModel,
		logger,
	)
}

func NewAdvisorWithClient(client *openai.Client, model, visionModel string, logger *slog.Logger) *Advisor {
	return &Advisor{
		client:      client,
		model:       model,
		visionModel: visionModel,
		log:         logger.With(sl.Module("advisor")),
	}
}

// complete runs one JSON-mode chat completion and returns the raw content.
func (a *Advisor) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	content := stripFence(resp.Choices[0].Message.Content)
	a.log.With(
		slog.String("model", model),
		slog.Int("prompt_tokens", resp.Usage.PromptTokens),
		slog.Int("completion_tokens", resp.Usage.CompletionTokens),
	).Debug("chat completion")

	if content == "" {
		return "", fmt.Errorf("empty response")
	}
	return content, nil
}

// stripFence removes a markdown code fence around a JSON answer.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
