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
	groqEndpoint     = "https://api.groq.com/openai/v1/chat/completions"
	groqDefaultModel = "llama-3.1-70b-versatile"
	groqTimeout      = 30 * time.Second
)

// Groq calls the free-tier hosted chat-completion API.
type Groq struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	http        *platform.HTTPClient
}

func NewGroq(cfg *config.Config) *Groq {
	model := cfg.AIModel
	if model == "" {
		model = groqDefaultModel
	}
	return &Groq{
		endpoint:    groqEndpoint,
		apiKey:      cfg.GroqAPIKey,
		model:       model,
		temperature: cfg.AITemperature,
		maxTokens:   cfg.AIMaxTokens,
		http:        platform.NewHTTPClient(groqTimeout),
	}
}

func (g *Groq) Name() string { return ProviderGroq }

func (g *Groq) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(newChatRequest(g.model, prompt, g.temperature, g.maxTokens))
	if err != nil {
		return "", fmt.Errorf("marshal groq request: %w", err)
	}

	body, err := g.http.PostJSON(ctx, g.endpoint, payload, map[string]string{
		"Authorization": "Bearer " + g.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("groq request: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
