// Package api defines the data contracts shared across the pipeline:
// collected samples, recommendations, analysis snapshots, and the persisted
// record shape.
package api

import "time"

// RecommendationType classifies an actionable finding.
type RecommendationType string

const (
	RecommendationRightsize RecommendationType = "rightsize"
	RecommendationCleanup   RecommendationType = "cleanup"
)

// Severity indicates how urgently a recommendation should be acted on.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ResourceSample is one compute instance's utilization over the rolling
// collection window. Produced fresh each cycle, never mutated.
type ResourceSample struct {
	ResourceID   string    `json:"resource_id"`
	ResourceType string    `json:"resource_type"`
	CPUAverage   float64   `json:"cpu_average"`
	CPUMax       float64   `json:"cpu_max"`
	CreatedAt    time.Time `json:"created_at"`
}

// VolumeSample is one block-storage volume's inventory state.
type VolumeSample struct {
	ResourceID string    `json:"resource_id"`
	SizeGB     int32     `json:"size_gb"`
	State      string    `json:"state"`
	IsAttached bool      `json:"is_attached"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recommendation is a single actionable finding tied to one resource.
// Derived deterministically from one input sample; immutable once created.
type Recommendation struct {
	Type             RecommendationType `json:"type"`
	Severity         Severity           `json:"severity"`
	ResourceID       string             `json:"resource_id"`
	Message          string             `json:"message"`
	EstimatedSavings float64            `json:"estimated_savings"`

	// Type-specific fields.
	CurrentType    string  `json:"current_type,omitempty"`
	CPUUtilization float64 `json:"cpu_utilization,omitempty"`
	SizeGB         int32   `json:"size_gb,omitempty"`

	// Filled by the optional pricing enrichment pass.
	CurrentMonthlyCost float64 `json:"current_monthly_cost,omitempty"`
}

// Metrics groups the raw samples embedded in a snapshot.
type Metrics struct {
	Compute []ResourceSample `json:"compute"`
	Storage []VolumeSample   `json:"storage"`
}

// AnalysisSnapshot is one full analysis record produced by a single
// collection cycle. TotalPotentialSavings is always the exact sum of the
// constituent recommendation savings.
type AnalysisSnapshot struct {
	ID                    string           `json:"id"`
	Timestamp             time.Time        `json:"timestamp"`
	Recommendations       []Recommendation `json:"recommendations"`
	TotalPotentialSavings float64          `json:"total_potential_savings"`
	RawMetrics            Metrics          `json:"raw_metrics"`
	AIReport              string           `json:"ai_report,omitempty"`
	ReportGeneratedAt     *time.Time       `json:"report_generated_at,omitempty"`
}

// SnapshotRecord is the persisted shape of a snapshot: summary columns for
// cheap listing plus the full snapshot serialized into Data. The savings
// column is truncated to a whole dollar figure; rounding happens only here,
// never inside the snapshot itself.
type SnapshotRecord struct {
	ID                    string `json:"id" dynamodbav:"id"`
	Timestamp             string `json:"timestamp" dynamodbav:"timestamp"`
	RecommendationsCount  int    `json:"recommendations_count" dynamodbav:"recommendations_count"`
	TotalPotentialSavings int64  `json:"total_potential_savings" dynamodbav:"total_potential_savings"`
	Data                  string `json:"data" dynamodbav:"data"`
	AIReport              string `json:"ai_report,omitempty" dynamodbav:"ai_report,omitempty"`
	ReportGeneratedAt     string `json:"report_generated_at,omitempty" dynamodbav:"report_generated_at,omitempty"`
}
