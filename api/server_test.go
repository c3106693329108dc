package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aws-cost-optimizer/internal/analyzer"
	"aws-cost-optimizer/internal/handler"
	capi "aws-cost-optimizer/pkg/api"
)

type stubStore struct {
	latest  *capi.SnapshotRecord
	pingErr error
}

func (s *stubStore) Save(_ context.Context, _ *capi.AnalysisSnapshot) error { return nil }

func (s *stubStore) Latest(_ context.Context) (*capi.SnapshotRecord, error) {
	return s.latest, nil
}

func (s *stubStore) AttachReport(_ context.Context, _, _ string, _ time.Time) error { return nil }
func (s *stubStore) Ping(_ context.Context) error                                   { return s.pingErr }
func (s *stubStore) Close() error                                                   { return nil }

type stubCollector struct{}

func (stubCollector) Collect(_ context.Context) capi.Metrics {
	return capi.Metrics{
		Compute: []capi.ResourceSample{
			{ResourceID: "i-idle", ResourceType: "t3.large", CPUAverage: 3.0, CPUMax: 9.0},
		},
		Storage: []capi.VolumeSample{},
	}
}

type stubGenerator struct{}

func (stubGenerator) GenerateReport(_ context.Context, _ *capi.AnalysisSnapshot) string {
	return "narrated report"
}

func newTestServer(store *stubStore) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyze := handler.NewAnalyze(stubCollector{}, analyzer.New(), nil, store, logger)
	report := handler.NewReport(store, stubGenerator{}, nil, nil, logger)
	return NewServer(analyze, report, store, logger, nil)
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		StatusCode int              `json:"statusCode"`
		Body       capi.AnalyzeBody `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cost analysis completed successfully", resp.Body.Message)
	assert.Equal(t, 1, resp.Body.ResourcesAnalyzed)
	assert.Equal(t, 1, resp.Body.Recommendations)
}

func TestReportEndpointWithData(t *testing.T) {
	snapshot := analyzer.New().Analyze(stubCollector{}.Collect(context.Background()))
	record, err := snapshot.Record()
	require.NoError(t, err)

	srv := newTestServer(&stubStore{latest: record})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StatusCode int             `json:"statusCode"`
		Body       capi.ReportBody `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AI report generated successfully", resp.Body.Message)
	assert.Equal(t, len("narrated report"), resp.Body.ReportLength)
}

func TestReportEndpointEmptyStore(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/report", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp struct {
		Body capi.ReportBody `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No analysis data found", resp.Body.Error)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpointStoreDown(t *testing.T) {
	srv := newTestServer(&stubStore{pingErr: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStageEndpointsRejectGet(t *testing.T) {
	srv := newTestServer(&stubStore{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
