package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/geo-digest-service/internal/domain"
)

// maxRequestBytes bounds the POST /v1/digest body.
const maxRequestBytes = 32 << 20

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// Digester turns a summarize request into a digest response.
type Digester interface {
	Digest(ctx context.Context, req domain.SummarizeRequest) (domain.DigestResponse, error)
}

// Server exposes the digest endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	digester   Digester
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/digest routes.
func NewServer(addr string, ready ReadinessChecker, digester Digester, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		digester: digester,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/digest", s.handleDigest)

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

func (s *Server) handleDigest(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req domain.SummarizeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, fmt.Errorf("decode summarize request: %w", err))
		return
	}

	resp, err := s.digester.Digest(r.Context(), req)
	if err != nil {
		s.logger.Error("digest failed", "request_id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.logger.Debug("digest served",
		"request_id", resp.RequestID,
		"layers", resp.LayerCount,
		"features", resp.FeatureCount,
		"bytes", resp.ByteSize,
	)
	sharedobs.WriteJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
