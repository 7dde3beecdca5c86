package corpdex

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/corpdex/internal/usecase/health"
)

// HealthStatus represents the aggregated storage health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // record kind → "ok"/"error"
}

// Health checks that every record kind's storage location is readable.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.observe("health", start, len(checks), nil)
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
