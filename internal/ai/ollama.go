package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"aws-cost-optimizer/pkg/config"
	"aws-cost-optimizer/pkg/platform"
)

const (
	ollamaDefaultModel = "llama3.1"

	// Self-hosted generation is slower than the hosted APIs.
	ollamaTimeout = 60 * time.Second
)

// Ollama calls a self-hosted generation service. No authentication.
type Ollama struct {
	host  string
	model string
	http  *platform.HTTPClient
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func NewOllama(cfg *config.Config) *Ollama {
	model := cfg.AIModel
	if model == "" {
		model = ollamaDefaultModel
	}
	return &Ollama{
		host:  strings.TrimSuffix(cfg.OllamaHost, "/"),
		model: model,
		http:  platform.NewHTTPClient(ollamaTimeout),
	}
}

func (o *Ollama) Name() string { return ProviderOllama }

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal ollama request: %w", err)
	}

	body, err := o.http.PostJSON(ctx, o.host+"/api/generate", payload, nil)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}

	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return resp.Response, nil
}
