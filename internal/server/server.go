// Package server exposes the audit engine over HTTP. One POST endpoint
// runs a full audit and returns the report; a liveness probe supports
// container orchestration.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ticoet/geoscan/internal/extract"
	"github.com/ticoet/geoscan/internal/fetch"
	"github.com/ticoet/geoscan/internal/model"
	"github.com/ticoet/geoscan/internal/pipeline"
)

// Request body limit for POST /audit. Pasted markup can be large but
// a full page never legitimately exceeds this.
const maxRequestBody = 10 * 1024 * 1024

// Server handles audit requests over HTTP. Each request builds its
// own pipeline with fresh orchestrator and extractor instances, so
// concurrent audits share no mutable state.
type Server struct {
	addr         string
	fetchCfg     fetch.Config
	provider     fetch.Strategy
	store        fetch.PageStore
	logger       *slog.Logger
	httpServer   *http.Server
	readyTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithFetchConfig sets the transport settings applied to every
// audit's strategy cascade.
func WithFetchConfig(cfg fetch.Config) Option {
	return func(s *Server) {
		s.fetchCfg = cfg
	}
}

// WithProvider sets the scraping-provider strategy shared by all
// audits. The strategy must be safe for concurrent use.
func WithProvider(p fetch.Strategy) Option {
	return func(s *Server) {
		s.provider = p
	}
}

// WithPageStore sets the page cache consulted before each cascade.
// The store must be safe for concurrent use.
func WithPageStore(store fetch.PageStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a Server listening on addr.
func New(addr string, opts ...Option) *Server {
	s := &Server{
		addr:         addr,
		readyTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Router builds the HTTP handler. Exposed separately from
// ListenAndServe so tests can drive it through httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/audit", s.handleAudit)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// ListenAndServe starts the server and blocks until ctx is canceled
// or the listener fails. On cancellation the server drains in-flight
// requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("audit server listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.readyTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// errorResponse is the JSON payload for failed audits.
type errorResponse struct {
	Error string `json:"error"`

	// ProviderConfigured is present only on acquisition failures. It
	// tells the caller whether configuring a scraping provider could
	// change the outcome.
	ProviderConfigured *bool `json:"providerConfigured,omitempty"`
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close() //nolint:errcheck // Response already written.

	var req model.AuditRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	audit := pipeline.NewAudit(&req)
	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddSteps(pipeline.DefaultSteps(s.newOrchestrator(), extract.NewExtractor())...)

	if err := p.Execute(r.Context(), audit); err != nil {
		s.writeAuditError(w, &req, err)
		return
	}

	s.writeJSON(w, http.StatusOK, audit.Report)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// newOrchestrator builds a per-request orchestrator. The provider and
// page store are shared; the strategy instances are not.
func (s *Server) newOrchestrator() *fetch.Orchestrator {
	opts := []fetch.Option{fetch.WithLogger(s.logger)}
	if s.provider != nil {
		opts = append(opts, fetch.WithProvider(s.provider))
	}
	if s.store != nil {
		opts = append(opts, fetch.WithPageStore(s.store))
	}
	return fetch.NewOrchestrator(s.fetchCfg, opts...)
}

// writeAuditError maps pipeline failures onto HTTP statuses: input
// problems are the caller's fault, acquisition problems are not.
func (s *Server) writeAuditError(w http.ResponseWriter, req *model.AuditRequest, err error) {
	if errors.Is(err, model.ErrMissingURL) || errors.Is(err, model.ErrMarkupTooShort) {
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var acq *fetch.AcquisitionError
	if errors.As(err, &acq) {
		s.logger.Warn("acquisition failed", "url", req.URL, "attempts", acq.Attempts)
		s.writeError(w, http.StatusInternalServerError, errorResponse{
			Error:              acq.Error(),
			ProviderConfigured: &acq.ProviderConfigured,
		})
		return
	}

	s.logger.Error("audit failed", "url", req.URL, "error", err)
	s.writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (s *Server) writeError(w http.ResponseWriter, status int, resp errorResponse) {
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
