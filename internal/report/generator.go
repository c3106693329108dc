package report

import (
	"context"
	"log/slog"

	"aws-cost-optimizer/internal/ai"
	"aws-cost-optimizer/pkg/api"
)

// staticFallback is returned when the generation backend fails. It
// intentionally carries no snapshot data; operators are pointed at the
// persisted record instead.
const staticFallback = `AWS COST OPTIMIZATION REPORT (Fallback Mode)

The AI service is temporarily unavailable. Basic analysis provided:

ANALYSIS COMPLETED
Your infrastructure has been analyzed. The full metrics and recommendations
are stored in the analysis table.

NEXT STEPS
1. Review the stored analysis record for detailed metrics
2. Review the recommendations for cost savings opportunities
3. Retry report generation when the AI service is available
`

// Generator produces the narrative report for a snapshot.
type Generator struct {
	provider ai.Provider
	logger   *slog.Logger
}

func NewGenerator(provider ai.Provider, logger *slog.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// GenerateReport builds the prompt, dispatches it to the configured
// backend, and returns the generated text. It never propagates a backend
// failure: any network or HTTP error degrades to the static fallback text.
// The returned string is always non-empty.
func (g *Generator) GenerateReport(ctx context.Context, snapshot *api.AnalysisSnapshot) string {
	prompt := BuildPrompt(snapshot)

	g.logger.Info("generating report", "provider", g.provider.Name(),
		"recommendations", len(snapshot.Recommendations))

	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		g.logger.Error("report generation failed, using fallback",
			"provider", g.provider.Name(), "error", err)
		return staticFallback
	}
	if text == "" {
		g.logger.Warn("provider returned empty report, using fallback",
			"provider", g.provider.Name())
		return staticFallback
	}
	return text
}
