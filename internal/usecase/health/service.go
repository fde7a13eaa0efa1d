package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "healthy"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates that no check passed.
	Unhealthy Status = "unhealthy"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Feature names reported by /health.
const (
	FeatureSemanticSearch        = "semantic_search"
	FeatureQueryCategorization   = "query_categorization"
	FeatureBusinessUnderstanding = "business_understanding"
	FeatureEnhancedMetadata      = "enhanced_metadata"
)

// Report aggregates health check results and the features they enable.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Features map[string]bool
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding}
}

// Check runs health checks against all components.
// Query analysis and tagging run in-process and are always available.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	dbOK := s.db.Ping(ctx) == nil
	checks["database"] = result(dbOK)

	embOK := true
	if s.embedding != nil {
		embOK = s.embedding.HealthCheck(ctx) == nil
		checks["embedding"] = result(embOK)
	}

	failed := 0
	for _, v := range checks {
		if v == CheckError {
			failed++
		}
	}
	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{
		Status: status,
		Checks: checks,
		Features: map[string]bool{
			FeatureSemanticSearch:        dbOK && embOK,
			FeatureQueryCategorization:   true,
			FeatureBusinessUnderstanding: true,
			FeatureEnhancedMetadata:      dbOK,
		},
	}
}

func result(ok bool) CheckResult {
	if ok {
		return CheckOK
	}
	return CheckError
}
