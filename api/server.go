// Package api provides the HTTP trigger surface for the pipeline stages.
// Scheduling stays external; this server only exposes the invocation
// endpoints and a health probe.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aws-cost-optimizer/db"
	"aws-cost-optimizer/internal/handler"
	capi "aws-cost-optimizer/pkg/api"
)

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		ReadTimeout: 30 * time.Second,
		// Stage 2 can block on a slow generation backend.
		WriteTimeout: 120 * time.Second,
	}
}

// Server exposes the pipeline stages over HTTP.
type Server struct {
	httpServer *http.Server
	analyze    *handler.Analyze
	report     *handler.Report
	store      db.Store
	logger     *slog.Logger
	config     *Config
}

func NewServer(analyze *handler.Analyze, report *handler.Report, store db.Store, logger *slog.Logger, config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Server{
		analyze: analyze,
		report:  report,
		store:   store,
		logger:  logger,
		config:  config,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/v1/analyze", s.handleAnalyze)
	r.Post("/v1/report", s.handleReport)
	r.Get("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve runs the server until the context is canceled or a shutdown signal
// arrives.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("trigger server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-quit:
		s.logger.Info("shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.analyze.Handle(r.Context()))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, s.report.Handle(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeResponse(w, capi.Response{
			StatusCode: http.StatusServiceUnavailable,
			Body:       map[string]string{"status": "store unreachable"},
		})
		return
	}
	writeResponse(w, capi.Response{
		StatusCode: http.StatusOK,
		Body:       map[string]string{"status": "ok"},
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeResponse(w http.ResponseWriter, resp capi.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
