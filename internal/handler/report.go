package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"aws-cost-optimizer/db"
	"aws-cost-optimizer/internal/report"
	"aws-cost-optimizer/pkg/api"
)

// ReportGenerator produces narrative text for a snapshot. Implementations
// must not fail: they degrade internally to templated text.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, snapshot *api.AnalysisSnapshot) string
}

// Distributor delivers a finished report somewhere. Failures are logged by
// the handler and never escalate.
type Distributor interface {
	Archive(ctx context.Context, reportText string) error
}

// Broadcaster publishes a finished report. Same best-effort contract.
type Broadcaster interface {
	Notify(ctx context.Context, reportText string) error
}

// Report runs stage 2 of the pipeline.
type Report struct {
	store     db.Store
	generator ReportGenerator
	archiver  Distributor
	notifier  Broadcaster
	logger    *slog.Logger
	now       func() time.Time
}

// NewReport builds the stage-2 handler. generator may be nil when no
// backend could be constructed; the stage then falls back to the templated
// report built from real snapshot data.
func NewReport(store db.Store, generator ReportGenerator, archiver Distributor, notifier Broadcaster, logger *slog.Logger) *Report {
	return &Report{
		store:     store,
		generator: generator,
		archiver:  archiver,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle fetches the latest snapshot and produces its report. The only
// non-200 outcomes are 404 (nothing to process: empty store, or the fetch
// itself failed) and 500 (a stored record that cannot be parsed).
// Generation failures never surface; archive, notify, and the report
// write-back are all best-effort.
func (h *Report) Handle(ctx context.Context) api.Response {
	h.logger.Info("starting report generation")

	record, err := h.store.Latest(ctx)
	if err != nil {
		h.logger.Warn("snapshot fetch failed, treating as no data", "error", err)
		record = nil
	}
	if record == nil {
		h.logger.Info("no analysis data found")
		return api.Response{
			StatusCode: http.StatusNotFound,
			Body:       api.ReportBody{Error: "No analysis data found"},
		}
	}

	snapshot, err := record.Snapshot()
	if err != nil {
		h.logger.Error("stored snapshot is unreadable", "id", record.ID, "error", err)
		return api.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       api.ReportBody{Error: err.Error()},
		}
	}

	var reportText string
	if h.generator != nil {
		reportText = h.generator.GenerateReport(ctx, snapshot)
	} else {
		h.logger.Warn("no generation backend available, using templated report")
		reportText = report.FallbackSummary(snapshot, h.now())
	}

	if h.archiver != nil {
		if err := h.archiver.Archive(ctx, reportText); err != nil {
			h.logger.Error("report archival failed", "error", err)
		}
	}
	if h.notifier != nil {
		if err := h.notifier.Notify(ctx, reportText); err != nil {
			h.logger.Error("report notification failed", "error", err)
		}
	}

	generatedAt := h.now()
	if err := h.store.AttachReport(ctx, record.ID, reportText, generatedAt); err != nil {
		// A record that never receives its narrative is an accepted
		// outcome, not a failed run.
		h.logger.Error("report write-back failed", "id", record.ID, "error", err)
	}

	h.logger.Info("report generated", "id", record.ID, "length", len(reportText))
	return api.Response{
		StatusCode: http.StatusOK,
		Body: api.ReportBody{
			Message:      "AI report generated successfully",
			Timestamp:    generatedAt.UTC().Format(time.RFC3339),
			ReportLength: len(reportText),
		},
	}
}
