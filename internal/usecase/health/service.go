// Package health aggregates component availability checks.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status        Status
	Checks        map[string]CheckResult
	IndexedChunks int
}

// Service coordinates health checks.
type Service struct {
	embedding EmbeddingChecker
	cache     CachePinger
	index     IndexSizer
}

// New creates a Service. cache may be nil when the in-memory cache backend
// is configured; embedding may be nil in tests.
func New(embedding EmbeddingChecker, cache CachePinger, index IndexSizer) *Service {
	return &Service{embedding: embedding, cache: cache, index: index}
}

// Check runs health checks against all wired components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	report := Report{Status: status, Checks: checks}
	if s.index != nil {
		report.IndexedChunks = s.index.Size()
	}
	return report
}
