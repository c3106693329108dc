// Package ai abstracts the interchangeable text-generation backends behind
// a single Provider interface. The backend is selected once at construction
// from configuration; call sites never branch on provider names.
package ai

import (
	"context"
	"strings"

	"aws-cost-optimizer/pkg/config"
	"aws-cost-optimizer/pkg/errors"
)

// Supported provider names.
const (
	ProviderGroq       = "groq"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// Provider generates text from a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// New selects and constructs the configured provider. An unsupported
// provider name, or a missing API key for a key-authenticated provider,
// fails here rather than on the first generation call.
func New(cfg *config.Config) (Provider, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, errors.NewMissingAPIKeyError(ProviderGroq, "GROQ_API_KEY")
		}
		return NewGroq(cfg), nil
	case ProviderOpenRouter:
		if cfg.OpenRouterKey == "" {
			return nil, errors.NewMissingAPIKeyError(ProviderOpenRouter, "OPENROUTER_API_KEY")
		}
		return NewOpenRouter(cfg), nil
	case ProviderOllama:
		return NewOllama(cfg), nil
	default:
		return nil, errors.NewUnsupportedProviderError(cfg.AIProvider)
	}
}
