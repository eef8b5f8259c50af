// Package chi exposes the ingestion and query pipeline over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/domain"
	healthuc "github.com/kailas-cloud/ragdex/internal/usecase/health"
	pipelineuc "github.com/kailas-cloud/ragdex/internal/usecase/pipeline"
	"github.com/kailas-cloud/ragdex/internal/version"
)

const maxIngestBatch = 100

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the pipeline and health services.
type Server struct {
	pipeline      *pipelineuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(pipeline *pipelineuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		pipeline: pipeline,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidConfig, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidDocument, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, CodeEmptyQuery),
		sentinelHandler(domain.ErrTimeout, http.StatusGatewayTimeout, CodeTimeout),
		sentinelHandler(domain.ErrProviderError, http.StatusBadGateway, CodeProviderError),
	}
	return s
}

// Routes mounts all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/ingest", s.Ingest)
	r.Post("/api/v1/query", s.Query)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ingest handles POST /api/v1/ingest.
func (s *Server) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Documents) == 0 || len(req.Documents) > maxIngestBatch {
		writeError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("documents count must be between 1 and %d", maxIngestBatch))
		return
	}

	docs := make([]domain.Document, 0, len(req.Documents))
	for i, item := range req.Documents {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		doc, err := domain.NewDocument(id, item.Content, item.Source, item.Metadata)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed,
				fmt.Sprintf("document %d: %s", i, safeDomainMessage(err)))
			return
		}
		docs = append(docs, doc)
	}

	stats, err := s.pipeline.Ingest(r.Context(), docs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		DocumentsIngested: stats.DocumentsIngested,
		ChunksCreated:     stats.ChunksCreated,
		TokensProcessed:   stats.TokensProcessed,
	})
}

// Query handles POST /api/v1/query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.pipeline.Query(r.Context(), req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sources := make([]SourceItem, len(result.Sources))
	for i := range result.Sources {
		src := &result.Sources[i]
		sources[i] = SourceItem{
			ChunkID:  src.ChunkID(),
			Score:    src.Score(),
			Content:  src.Content(),
			Metadata: src.Metadata(),
		}
	}

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		Context:   result.Context,
		LatencyMs: result.LatencyMs,
	})
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

	writeJSON(w, httpStatus, HealthResponse{
		Status:        string(report.Status),
		Checks:        checks,
		IndexedChunks: report.IndexedChunks,
		Version:       version.Version,
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
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidConfig,
		domain.ErrInvalidDocument,
		domain.ErrEmptyQuery,
		domain.ErrTimeout,
		domain.ErrProviderError,
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
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
