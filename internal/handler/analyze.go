// Package handler implements the two pipeline stages behind the trigger
// contract: analyze (collect, classify, persist) and report (fetch,
// narrate, distribute).
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"aws-cost-optimizer/db"
	"aws-cost-optimizer/internal/analyzer"
	"aws-cost-optimizer/pkg/api"
)

// Collector gathers one sample set per resource class.
type Collector interface {
	Collect(ctx context.Context) api.Metrics
}

// Enricher annotates a snapshot in place. Optional.
type Enricher interface {
	Enrich(ctx context.Context, snapshot *api.AnalysisSnapshot)
}

// Analyze runs stage 1 of the pipeline.
type Analyze struct {
	collector Collector
	analyzer  *analyzer.Analyzer
	enricher  Enricher
	store     db.Store
	logger    *slog.Logger
}

func NewAnalyze(collector Collector, a *analyzer.Analyzer, enricher Enricher, store db.Store, logger *slog.Logger) *Analyze {
	return &Analyze{
		collector: collector,
		analyzer:  a,
		enricher:  enricher,
		store:     store,
		logger:    logger,
	}
}

// Handle collects metrics, derives recommendations, and persists the
// snapshot. The persistence write is the one fatal step: its failure aborts
// the cycle with a 500. Collection failures have already degraded to empty
// sample sets by the time they reach this point.
func (h *Analyze) Handle(ctx context.Context) api.Response {
	h.logger.Info("starting cost analysis")

	metrics := h.collector.Collect(ctx)
	snapshot := h.analyzer.Analyze(metrics)

	if h.enricher != nil {
		h.enricher.Enrich(ctx, snapshot)
	}

	if err := h.store.Save(ctx, snapshot); err != nil {
		h.logger.Error("cost analysis failed", "error", err)
		return api.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       api.AnalyzeBody{Error: err.Error()},
		}
	}

	resources := len(metrics.Compute) + len(metrics.Storage)
	h.logger.Info("cost analysis completed",
		"snapshot_id", snapshot.ID,
		"resources_analyzed", resources,
		"recommendations", len(snapshot.Recommendations),
		"total_potential_savings", snapshot.TotalPotentialSavings)

	return api.Response{
		StatusCode: http.StatusOK,
		Body: api.AnalyzeBody{
			Message:           "Cost analysis completed successfully",
			Timestamp:         snapshot.Timestamp.Format(time.RFC3339),
			ResourcesAnalyzed: resources,
			Recommendations:   len(snapshot.Recommendations),
		},
	}
}
