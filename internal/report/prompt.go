// Package report builds generation prompts and produces the final report
// text, degrading to deterministic templates when the generation backend is
// unavailable.
package report

import (
	"fmt"
	"strings"

	"aws-cost-optimizer/pkg/api"
)

const lowCPUThreshold = 15.0

// BuildPrompt renders the structured analysis prompt sent to the
// generation backend.
func BuildPrompt(snapshot *api.AnalysisSnapshot) string {
	var underutilized int
	for _, s := range snapshot.RawMetrics.Compute {
		if s.CPUAverage < lowCPUThreshold {
			underutilized++
		}
	}
	var unattached int
	for _, v := range snapshot.RawMetrics.Storage {
		if !v.IsAttached {
			unattached++
		}
	}

	var b strings.Builder
	b.WriteString("# AWS Cost Optimization Analysis Request\n\n")
	b.WriteString("## Infrastructure Overview\n")
	fmt.Fprintf(&b, "- **Total EC2 Instances**: %d\n", len(snapshot.RawMetrics.Compute))
	fmt.Fprintf(&b, "- **Total EBS Volumes**: %d\n", len(snapshot.RawMetrics.Storage))
	fmt.Fprintf(&b, "- **Underutilized Instances**: %d (< 15%% CPU)\n", underutilized)
	fmt.Fprintf(&b, "- **Unattached Volumes**: %d\n", unattached)
	fmt.Fprintf(&b, "- **Estimated Monthly Savings Potential**: $%.2f\n\n", snapshot.TotalPotentialSavings)

	b.WriteString("## Detailed Recommendations\n")
	b.WriteString(formatRecommendations(snapshot.Recommendations))

	b.WriteString(`
## Your Task
Create a professional AWS cost optimization report with:

1. Executive Summary (2-3 sentences, total savings highlighted)
2. Top 3 Priority Actions (with specific resource IDs and savings)
3. Quick Wins (easy to implement, minimal risk)
4. Long-term Optimizations

Use clear formatting for email readability. Be specific and actionable.
Keep the tone professional but friendly.
`)
	return b.String()
}

// SummaryPrompt renders a short executive-summary prompt.
func SummaryPrompt(snapshot *api.AnalysisSnapshot) string {
	return fmt.Sprintf(`Create a 3-sentence executive summary of AWS cost optimization findings:
- %d optimization opportunities identified
- $%.2f in potential monthly savings
- Focus on the single most impactful action

Keep it concise and executive-friendly.
`, len(snapshot.Recommendations), snapshot.TotalPotentialSavings)
}

// ComparisonPrompt renders a before/after prompt over two snapshots.
func ComparisonPrompt(current, previous *api.AnalysisSnapshot) string {
	change := current.TotalPotentialSavings - previous.TotalPotentialSavings
	var changePct float64
	if previous.TotalPotentialSavings > 0 {
		changePct = change / previous.TotalPotentialSavings * 100
	}

	return fmt.Sprintf(`# Week-over-Week Cost Analysis

## This Week
- Potential Savings: $%.2f
- Recommendations: %d

## Last Week
- Potential Savings: $%.2f
- Recommendations: %d

## Change
- Savings Delta: $%.2f (%+.1f%%)

Analyze this trend and provide:
1. What changed and why
2. Is the infrastructure becoming more or less optimized?
3. Recommended focus areas for next week

Keep it brief and actionable.
`,
		current.TotalPotentialSavings, len(current.Recommendations),
		previous.TotalPotentialSavings, len(previous.Recommendations),
		change, changePct)
}

func formatRecommendations(recommendations []api.Recommendation) string {
	if len(recommendations) == 0 {
		return "No specific recommendations at this time.\n"
	}

	var b strings.Builder
	for i, rec := range recommendations {
		fmt.Fprintf(&b, "\n**Recommendation %d**: %s\n", i+1, rec.Type)
		fmt.Fprintf(&b, "- Resource: %s\n", rec.ResourceID)
		fmt.Fprintf(&b, "- Issue: %s\n", rec.Message)
		fmt.Fprintf(&b, "- Potential Savings: $%.2f/month\n", rec.EstimatedSavings)
		if rec.CurrentMonthlyCost > 0 {
			fmt.Fprintf(&b, "- Current Monthly Cost: $%.2f\n", rec.CurrentMonthlyCost)
		}
	}
	return b.String()
}
