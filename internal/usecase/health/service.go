package health

import (
	"context"

	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates every storage location is readable.
	Healthy Status = "ok"
	// Degraded indicates some storage locations are unreadable.
	Degraded Status = "degraded"
	// Unhealthy indicates no storage location is readable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results keyed by record kind.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	storage StoragePinger
	kinds   []record.Kind
}

// New creates a Service checking every known record kind.
func New(storage StoragePinger) *Service {
	return &Service{storage: storage, kinds: record.Kinds()}
}

// Check pings the storage location of each record kind.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.kinds))
	failed := 0

	for _, k := range s.kinds {
		if err := s.storage.Ping(ctx, k); err != nil {
			checks[string(k)] = CheckError
			failed++
			continue
		}
		checks[string(k)] = CheckOK
	}

	status := Healthy
	switch {
	case failed == len(s.kinds):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
