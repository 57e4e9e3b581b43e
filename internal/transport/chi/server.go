// Package chi exposes the HTTP API: similarity search, ticket ingestion and
// lookup, health, and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	dommatch "github.com/atlasdesk/ticketmatch/internal/domain/match"
	logpkg "github.com/atlasdesk/ticketmatch/internal/logger"
	healthuc "github.com/atlasdesk/ticketmatch/internal/usecase/health"
	matchuc "github.com/atlasdesk/ticketmatch/internal/usecase/match"
)

// Matcher is the similarity service contract consumed by the HTTP layer.
type Matcher interface {
	Search(ctx context.Context, query domain.Ticket, opts matchuc.SearchOptions) ([]dommatch.Result, error)
	Ingest(ctx context.Context, t domain.Ticket) (string, error)
	Get(ctx context.Context, id string) (domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

// Explainer produces an optional match summary. Implementations must never
// fail the request; they degrade to "".
type Explainer interface {
	Explain(ctx context.Context, query *domain.Ticket, results []dommatch.Result) string
}

// HealthService aggregates component checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API server.
type Server struct {
	matcher       Matcher
	explainer     Explainer
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. explainer can be nil when the
// explanation generator is not configured.
func NewServer(matcher Matcher, explainer Explainer, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		matcher:   matcher,
		explainer: explainer,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrInvalidTicket, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, "ticket_not_found"),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, "embedding_provider_error"),
		sentinelHandler(domain.ErrVectorStoreUnavailable, http.StatusServiceUnavailable, "vector_store_unavailable"),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.SearchTickets)
		r.Post("/tickets", s.IngestTicket)
		r.Get("/tickets/{id}", s.GetTicket)
		r.Delete("/tickets/{id}", s.DeleteTicket)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// SearchTickets handles POST /api/v1/search.
func (s *Server) SearchTickets(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	query := ticketFromDTO(req.Ticket)
	opts := matchuc.SearchOptions{
		Rules: rulesFromDTO(req.Rules),
		Debug: req.Debug,
	}

	results, err := s.matcher.Search(r.Context(), query, opts)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := searchResponse{
		Results: make([]matchDTO, len(results)),
		Count:   len(results),
	}
	for i := range results {
		resp.Results[i] = matchToDTO(&results[i])
	}
	if len(results) == 0 {
		resp.Message = "0 results found above threshold"
	}
	if req.Explain && s.explainer != nil {
		resp.Explanation = s.explainer.Explain(r.Context(), &query, results)
	}

	writeJSON(w, http.StatusOK, resp)
}

// IngestTicket handles POST /api/v1/tickets.
func (s *Server) IngestTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	id, err := s.matcher.Ingest(r.Context(), ticketFromDTO(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, ingestResponse{TicketID: id})
}

// GetTicket handles GET /api/v1/tickets/{id}.
func (s *Server) GetTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := s.matcher.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ticketToDTO(&t))
}

// DeleteTicket handles DELETE /api/v1/tickets/{id}.
func (s *Server) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.matcher.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidTicket,
		domain.ErrNotFound,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorStoreUnavailable,
		domain.ErrLLMUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

// validationHandler surfaces the full violation list from a ValidationError.
func validationHandler(w http.ResponseWriter, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Code:       "validation_failed",
		Message:    "ticket validation failed",
		Violations: ve.Violations,
	})
	return true
}

// handleDomainError logs with the request-scoped logger (which carries the
// request id) and walks the handler chain.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	lg := logpkg.FromContext(r.Context(), s.logger)
	lg.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	lg.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
