package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aws-cost-optimizer/pkg/api"
)

func fixedClock() func() time.Time {
	ts := time.Date(2026, 8, 23, 12, 30, 45, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestAnalyzeEmptyMetrics(t *testing.T) {
	snapshot := NewAt(fixedClock()).Analyze(api.Metrics{})

	assert.Empty(t, snapshot.Recommendations)
	assert.Equal(t, 0.0, snapshot.TotalPotentialSavings)
	assert.Equal(t, "2026-08-23_12-30-45", snapshot.ID)
}

func TestRightsizeBoundaryIsExclusive(t *testing.T) {
	metrics := api.Metrics{
		Compute: []api.ResourceSample{
			{ResourceID: "i-low", ResourceType: "t3.large", CPUAverage: 14.9, CPUMax: 40},
			{ResourceID: "i-ok", ResourceType: "t3.large", CPUAverage: 15.0, CPUMax: 80},
		},
	}

	snapshot := New().Analyze(metrics)

	require.Len(t, snapshot.Recommendations, 1)
	rec := snapshot.Recommendations[0]
	assert.Equal(t, api.RecommendationRightsize, rec.Type)
	assert.Equal(t, api.SeverityMedium, rec.Severity)
	assert.Equal(t, "i-low", rec.ResourceID)
	assert.Equal(t, "t3.large", rec.CurrentType)
	assert.Equal(t, 50.0, rec.EstimatedSavings)
}

func TestCleanupSavingsProportionalToSize(t *testing.T) {
	metrics := api.Metrics{
		Storage: []api.VolumeSample{
			{ResourceID: "vol-1", SizeGB: 30, State: "available", IsAttached: false},
			{ResourceID: "vol-2", SizeGB: 500, State: "in-use", IsAttached: true},
		},
	}

	snapshot := New().Analyze(metrics)

	require.Len(t, snapshot.Recommendations, 1)
	rec := snapshot.Recommendations[0]
	assert.Equal(t, api.RecommendationCleanup, rec.Type)
	assert.Equal(t, api.SeverityLow, rec.Severity)
	assert.Equal(t, "vol-1", rec.ResourceID)
	assert.Equal(t, int32(30), rec.SizeGB)
	assert.Equal(t, 3.0, rec.EstimatedSavings)
}

func TestTotalSavingsIsExactSum(t *testing.T) {
	metrics := api.Metrics{
		Compute: []api.ResourceSample{
			{ResourceID: "i-1", CPUAverage: 1.1},
			{ResourceID: "i-2", CPUAverage: 14.99},
		},
		Storage: []api.VolumeSample{
			{ResourceID: "vol-1", SizeGB: 7, IsAttached: false},
			{ResourceID: "vol-2", SizeGB: 13, IsAttached: false},
		},
	}

	snapshot := New().Analyze(metrics)

	var sum float64
	for _, rec := range snapshot.Recommendations {
		sum += rec.EstimatedSavings
	}
	assert.Equal(t, sum, snapshot.TotalPotentialSavings)
}

func TestComputeRecommendationsPrecedeStorage(t *testing.T) {
	metrics := api.Metrics{
		Compute: []api.ResourceSample{{ResourceID: "i-1", CPUAverage: 5}},
		Storage: []api.VolumeSample{{ResourceID: "vol-1", SizeGB: 10, IsAttached: false}},
	}

	snapshot := New().Analyze(metrics)

	require.Len(t, snapshot.Recommendations, 2)
	assert.Equal(t, api.RecommendationRightsize, snapshot.Recommendations[0].Type)
	assert.Equal(t, api.RecommendationCleanup, snapshot.Recommendations[1].Type)
}

func TestEndToEndScenario(t *testing.T) {
	// Two instances at 5% and 40% CPU plus one unattached 100 GB volume:
	// one rightsize, one cleanup, $60 total.
	metrics := api.Metrics{
		Compute: []api.ResourceSample{
			{ResourceID: "i-idle", ResourceType: "m5.large", CPUAverage: 5, CPUMax: 12},
			{ResourceID: "i-busy", ResourceType: "m5.large", CPUAverage: 40, CPUMax: 95},
		},
		Storage: []api.VolumeSample{
			{ResourceID: "vol-orphan", SizeGB: 100, State: "available", IsAttached: false},
		},
	}

	snapshot := New().Analyze(metrics)

	require.Len(t, snapshot.Recommendations, 2)
	assert.Equal(t, "i-idle", snapshot.Recommendations[0].ResourceID)
	assert.Equal(t, 50.0, snapshot.Recommendations[0].EstimatedSavings)
	assert.Equal(t, "vol-orphan", snapshot.Recommendations[1].ResourceID)
	assert.Equal(t, 10.0, snapshot.Recommendations[1].EstimatedSavings)
	assert.Equal(t, 60.0, snapshot.TotalPotentialSavings)
}

func TestSnapshotEmbedsRawMetrics(t *testing.T) {
	metrics := api.Metrics{
		Compute: []api.ResourceSample{{ResourceID: "i-1", CPUAverage: 50}},
		Storage: []api.VolumeSample{{ResourceID: "vol-1", SizeGB: 8, IsAttached: true}},
	}

	snapshot := New().Analyze(metrics)

	assert.Equal(t, metrics.Compute, snapshot.RawMetrics.Compute)
	assert.Equal(t, metrics.Storage, snapshot.RawMetrics.Storage)
	assert.Empty(t, snapshot.Recommendations)
}
