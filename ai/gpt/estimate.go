package gpt

import (
	"SafetyAgents/entity"
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const estimatePrompt = `You are an occupational hygienist estimating the likelihood of exposure for a COSHH assessment.
Given the task context as JSON, rate the likelihood of harmful exposure by each route on a 0-5 scale
(0 none, 1 very unlikely, 2 unlikely, 3 possible, 4 likely, 5 almost certain), taking existing controls into account.
Return only a JSON object:
{
  "inhalation": {"likelihood": int, "rationale": string, "additional_controls_needed": [string]},
  "ingestion": {...},
  "skin_eye": {...},
  "other": {...}
}`

// EstimateLikelihood asks the model for per-route likelihoods of one substance or process hazard.
func (a *Advisor) EstimateLikelihood(ctx context.Context, req entity.LikelihoodRequest) (*entity.LikelihoodEstimate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	content, err := a.complete(ctx, a.model, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: estimatePrompt},
		{Role: openai.ChatMessageRoleUser, Content: string(body)},
	})
	if err != nil {
		return nil, fmt.Errorf("estimate %s: %w", req.Subject, err)
	}

	var est entity.LikelihoodEstimate
	if err = json.Unmarshal([]byte(content), &est); err != nil {
		return nil, fmt.Errorf("decode estimate of %s: %w", req.Subject, err)
	}
	for _, route := range entity.Routes {
		if l := est.Get(route).Likelihood; l < 0 || l > 5 {
			return nil, fmt.Errorf("likelihood %d out of range for %s", l, route)
		}
	}
	est.Source = entity.EstimateAdvisor
	return &est, nil
}
