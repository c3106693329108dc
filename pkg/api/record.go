package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record converts a snapshot into its persisted shape: summary columns plus
// the full snapshot JSON-serialized into Data. The savings column is
// truncated, not rounded.
func (s *AnalysisSnapshot) Record() (*SnapshotRecord, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize snapshot %s: %w", s.ID, err)
	}
	return &SnapshotRecord{
		ID:                    s.ID,
		Timestamp:             s.Timestamp.UTC().Format(time.RFC3339),
		RecommendationsCount:  len(s.Recommendations),
		TotalPotentialSavings: int64(s.TotalPotentialSavings),
		Data:                  string(data),
	}, nil
}

// Snapshot parses the embedded snapshot JSON back out of a record.
func (r *SnapshotRecord) Snapshot() (*AnalysisSnapshot, error) {
	var snapshot AnalysisSnapshot
	if err := json.Unmarshal([]byte(r.Data), &snapshot); err != nil {
		return nil, fmt.Errorf("parse snapshot data for record %s: %w", r.ID, err)
	}
	return &snapshot, nil
}
