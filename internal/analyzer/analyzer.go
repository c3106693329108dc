// Package analyzer applies the fixed recommendation rules to collected
// metrics and assembles the analysis snapshot.
package analyzer

import (
	"fmt"
	"time"

	"aws-cost-optimizer/pkg/api"
)

const (
	// Instances averaging below this CPU percentage over the window are
	// flagged for rightsizing. The boundary is exclusive: exactly 15% is
	// considered acceptable utilization.
	lowCPUThreshold = 15.0

	// Flat monthly savings estimate for a rightsize finding. Deliberately
	// not proportional to instance size.
	rightsizeMonthlySavings = 50.0

	// Monthly cost per GB of an unattached volume.
	unattachedCostPerGB = 0.10
)

// Analyzer turns raw metrics into recommendations.
type Analyzer struct {
	now func() time.Time
}

func New() *Analyzer {
	return &Analyzer{now: time.Now}
}

// NewAt returns an analyzer with a fixed clock, for deterministic snapshots.
func NewAt(now func() time.Time) *Analyzer {
	return &Analyzer{now: now}
}

// Analyze evaluates every resource independently against the threshold
// rules and returns the snapshot. Compute recommendations precede storage
// recommendations; ordering is insertion order and carries no meaning.
func (a *Analyzer) Analyze(metrics api.Metrics) *api.AnalysisSnapshot {
	ts := a.now().UTC()

	recommendations := []api.Recommendation{}
	for _, instance := range metrics.Compute {
		if rec, ok := evaluateInstance(instance); ok {
			recommendations = append(recommendations, rec)
		}
	}
	for _, volume := range metrics.Storage {
		if rec, ok := evaluateVolume(volume); ok {
			recommendations = append(recommendations, rec)
		}
	}

	var total float64
	for _, rec := range recommendations {
		total += rec.EstimatedSavings
	}

	return &api.AnalysisSnapshot{
		ID:                    ts.Format("2006-01-02_15-04-05"),
		Timestamp:             ts,
		Recommendations:       recommendations,
		TotalPotentialSavings: total,
		RawMetrics:            metrics,
	}
}

func evaluateInstance(sample api.ResourceSample) (api.Recommendation, bool) {
	if sample.CPUAverage >= lowCPUThreshold {
		return api.Recommendation{}, false
	}
	return api.Recommendation{
		Type:             api.RecommendationRightsize,
		Severity:         api.SeverityMedium,
		ResourceID:       sample.ResourceID,
		CurrentType:      sample.ResourceType,
		CPUUtilization:   sample.CPUAverage,
		Message:          fmt.Sprintf("EC2 instance %s has low CPU utilization (%.1f%%). Consider downsizing.", sample.ResourceID, sample.CPUAverage),
		EstimatedSavings: rightsizeMonthlySavings,
	}, true
}

func evaluateVolume(sample api.VolumeSample) (api.Recommendation, bool) {
	if sample.IsAttached {
		return api.Recommendation{}, false
	}
	return api.Recommendation{
		Type:             api.RecommendationCleanup,
		Severity:         api.SeverityLow,
		ResourceID:       sample.ResourceID,
		SizeGB:           sample.SizeGB,
		Message:          fmt.Sprintf("EBS volume %s (%d GB) is unattached and costing money.", sample.ResourceID, sample.SizeGB),
		EstimatedSavings: float64(sample.SizeGB) * unattachedCostPerGB,
	}, true
}
