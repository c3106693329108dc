package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aws-cost-optimizer/pkg/config"
	"aws-cost-optimizer/pkg/platform"
)

const (
	openRouterEndpoint     = "https://openrouter.ai/api/v1/chat/completions"
	openRouterDefaultModel = "anthropic/claude-3.5-sonnet"
	openRouterTimeout      = 30 * time.Second

	// Attribution headers required by the OpenRouter terms.
	openRouterReferer = "https://github.com/aws-cost-optimizer"
	openRouterTitle   = "AWS Cost Optimizer"
)

// OpenRouter calls the metered hosted chat-completion API.
type OpenRouter struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	http        *platform.HTTPClient
}

func NewOpenRouter(cfg *config.Config) *OpenRouter {
	model := cfg.AIModel
	if model == "" {
		model = openRouterDefaultModel
	}
	return &OpenRouter{
		endpoint:    openRouterEndpoint,
		apiKey:      cfg.OpenRouterKey,
		model:       model,
		temperature: cfg.AITemperature,
		maxTokens:   cfg.AIMaxTokens,
		http:        platform.NewHTTPClient(openRouterTimeout),
	}
}

func (o *OpenRouter) Name() string { return ProviderOpenRouter }

func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(newChatRequest(o.model, prompt, o.temperature, o.maxTokens))
	if err != nil {
		return "", fmt.Errorf("marshal openrouter request: %w", err)
	}

	body, err := o.http.PostJSON(ctx, o.endpoint, payload, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"HTTP-Referer":  openRouterReferer,
		"X-Title":       openRouterTitle,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter request: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode openrouter response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
