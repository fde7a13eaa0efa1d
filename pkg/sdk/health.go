package sheetdex

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/sheetdex/internal/usecase/health"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status   string            // "healthy", "degraded", "unhealthy"
	Checks   map[string]string // component -> "ok"/"error"
	Features map[string]bool   // feature -> available
}

// Health checks the vector store and, when configured, the embedding provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	c.obs.observe("health", start, nil)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	features := make(map[string]bool, len(report.Features))
	for k, v := range report.Features {
		features[k] = v
	}
	return HealthStatus{
		Status:   string(report.Status),
		Checks:   checks,
		Features: features,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
