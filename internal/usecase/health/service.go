// Package health aggregates component availability checks for the service
// health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure. Search may still work when only
	// optional components are down.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component check outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates health check results per component.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the vector store and the
// embedding provider.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil when the provider exposes no
// health probe.
func New(store StorePinger, embedding EmbeddingChecker) *Service {
	return &Service{store: store, embedding: embedding}
}

// Check probes every configured component and folds the outcomes into a
// single report.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["vector_store"] = probe(s.store.Ping(ctx))
	if s.embedding != nil {
		checks["embedding"] = probe(s.embedding.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func probe(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
