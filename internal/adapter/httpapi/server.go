// Package httpapi exposes the service's HTTP surface: operational endpoints
// (/healthz, /readyz, /metrics) and the read-only risk query API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coastwatch/coastal-risk-engine/internal/calibration"
	"github.com/coastwatch/coastal-risk-engine/internal/domain"
	"github.com/coastwatch/coastal-risk-engine/internal/engine"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// RiskComputer is the slice of the engine the API needs.
type RiskComputer interface {
	FetchAndCompute(ctx context.Context, d domain.Domain, loc domain.Location) (engine.Result, error)
}

// Server exposes health, readiness, metrics, and risk query HTTP endpoints.
type Server struct {
	httpServer *http.Server
	computer   RiskComputer
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational and risk API routes.
func NewServer(addr string, computer RiskComputer, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		computer: computer,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/v1/domains", s.handleDomains)
	mux.HandleFunc("GET /api/v1/risk/{domain}", s.handleRisk)
	mux.HandleFunc("GET /api/v1/risk/{domain}/segments", s.handleSegments)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func (s *Server) handleDomains(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.Domain{"domains": domain.AllDomains})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	result, ok := s.compute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSegments(w http.ResponseWriter, r *http.Request) {
	result, ok := s.compute(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"domain":   result.Index.Domain,
		"segments": result.Segments,
	})
}

// compute parses the shared request shape of the risk routes and runs the
// engine. It writes the error response itself and reports success via ok.
func (s *Server) compute(w http.ResponseWriter, r *http.Request) (engine.Result, bool) {
	d := domain.Domain(r.PathValue("domain"))
	if !d.Known() {
		writeError(w, http.StatusNotFound, "unknown domain "+string(d))
		return engine.Result{}, false
	}

	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return engine.Result{}, false
	}

	result, err := s.computer.FetchAndCompute(r.Context(), d, loc)
	if err != nil {
		var cfgErr *calibration.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusInternalServerError, err.Error())
		} else {
			writeError(w, http.StatusBadGateway, err.Error())
		}
		s.logger.Error("risk computation failed", "domain", d, "error", err)
		return engine.Result{}, false
	}
	return result, true
}

func parseLocation(r *http.Request) (domain.Location, error) {
	lat, err := parseCoord(r.URL.Query().Get("lat"), -90, 90)
	if err != nil {
		return domain.Location{}, errors.New("lat must be a number in [-90, 90]")
	}
	lng, err := parseCoord(r.URL.Query().Get("lng"), -180, 180)
	if err != nil {
		return domain.Location{}, errors.New("lng must be a number in [-180, 180]")
	}
	return domain.Location{lat, lng}, nil
}

func parseCoord(s string, min, max float64) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, errors.New("out of range")
	}
	return v, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
