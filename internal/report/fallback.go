package report

import (
	"fmt"
	"strings"
	"time"

	"aws-cost-optimizer/pkg/api"
)

const fallbackRule = "═══════════════════════════════════════════════════════════"

// maxFallbackRecommendations bounds the recommendation listing in the
// templated report.
const maxFallbackRecommendations = 5

// FallbackSummary renders the pipeline-level templated report from real
// snapshot data. Unlike the generator's static fallback, this one includes
// the actual recommendations; it is used when the report stage cannot even
// construct a generation backend.
func FallbackSummary(snapshot *api.AnalysisSnapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString(fallbackRule + "\n")
	b.WriteString(" AWS COST OPTIMIZATION REPORT\n")
	fmt.Fprintf(&b, " %s\n", now.Format("January 2, 2006"))
	b.WriteString(fallbackRule + "\n\n")

	fmt.Fprintf(&b, "POTENTIAL MONTHLY SAVINGS: $%.2f\n\n", snapshot.TotalPotentialSavings)
	fmt.Fprintf(&b, "RECOMMENDATIONS FOUND: %d\n\n", len(snapshot.Recommendations))

	if len(snapshot.Recommendations) > 0 {
		b.WriteString("TOP RECOMMENDATIONS:\n\n")
		for i, rec := range snapshot.Recommendations {
			if i == maxFallbackRecommendations {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.ToUpper(string(rec.Type)))
			fmt.Fprintf(&b, "   Resource: %s\n", rec.ResourceID)
			fmt.Fprintf(&b, "   Savings: $%.2f/month\n", rec.EstimatedSavings)
			fmt.Fprintf(&b, "   %s\n\n", rec.Message)
		}
	} else {
		b.WriteString("No optimization opportunities found at this time.\n")
		b.WriteString("Your infrastructure appears well-optimized!\n\n")
	}

	b.WriteString(fallbackRule + "\n")
	b.WriteString("Next analysis: next scheduled run\n")
	b.WriteString(fallbackRule + "\n")

	return b.String()
}
