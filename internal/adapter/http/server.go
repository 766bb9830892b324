package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/flight-brief/internal/domain"
)

const maxRequestBytes = 1 << 20

// BriefEvaluator turns a leg request into a brief.
type BriefEvaluator interface {
	Evaluate(ctx context.Context, req domain.LegRequest) (domain.Brief, error)
}

// Server exposes health, readiness, metrics, and on-demand brief endpoints.
type Server struct {
	httpServer *http.Server
	briefs     BriefEvaluator
	onBrief    func(domain.Brief)
	logger     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBriefHook registers a callback run for every brief served over HTTP.
func WithBriefHook(fn func(domain.Brief)) ServerOption {
	return func(s *Server) { s.onBrief = fn }
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and
// POST /v1/briefs routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, briefs BriefEvaluator, logger *slog.Logger, opts ...ServerOption) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		briefs: briefs,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/briefs", s.handleBrief)

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

func (s *Server) handleBrief(w http.ResponseWriter, r *http.Request) {
	var req domain.LegRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", err, nil)
		return
	}

	brief, err := s.briefs.Evaluate(r.Context(), req)
	if err != nil {
		var ve *domain.ValidationError
		var fe *domain.FormatError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusBadRequest, "invalid leg request", err, ve.Fields)
		case errors.As(err, &fe):
			writeError(w, http.StatusUnprocessableEntity, "malformed timestamp", err, []string{fe.Field})
		default:
			s.logger.Error("brief evaluation failed", "flight", req.FlightNo, "error", err)
			writeError(w, http.StatusInternalServerError, "evaluation failed", nil, nil)
		}
		return
	}

	if s.onBrief != nil {
		s.onBrief(brief)
	}
	writeJSON(w, http.StatusOK, brief)
}

type errorBody struct {
	Error  string   `json:"error"`
	Detail string   `json:"detail,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, err error, fields []string) {
	body := errorBody{Error: msg, Fields: fields}
	if err != nil {
		body.Detail = err.Error()
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
