package company

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/corpdex/internal/domain"
	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	"github.com/kailas-cloud/corpdex/internal/domain/query/filter"
	"github.com/kailas-cloud/corpdex/internal/domain/query/mode"
	"github.com/kailas-cloud/corpdex/internal/domain/query/page"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
	logpkg "github.com/kailas-cloud/corpdex/internal/logger"
)

// ListParams are the validated inputs of a company listing.
type ListParams struct {
	Window           page.Window
	Filters          filter.Spec
	Mode             mode.Mode // empty means inclusive
	IncludeEmployees bool
}

// Service answers company queries over record snapshots.
type Service struct {
	source RecordSource
}

// New creates a company query service.
func New(source RecordSource) *Service {
	return &Service{source: source}
}

// List loads companies, filters them, attaches employees and returns one page.
// Filtering happens before pagination, so the window indexes the filtered result.
func (s *Service) List(ctx context.Context, p ListParams) ([]domcompany.Company, error) {
	m := p.Mode
	if m == "" {
		m = mode.Inclusive
	}
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: invalid filter mode %q", domain.ErrInvalidInput, m)
	}

	companies, err := s.source.Load(ctx, record.Companies)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	loaded := len(companies)

	companies = filter.Apply(companies, p.Filters, m)

	var result []domcompany.Company
	if p.IncludeEmployees {
		employees, err := s.source.Load(ctx, record.Employees)
		if err != nil {
			return nil, fmt.Errorf("load employees: %w", err)
		}
		result = domcompany.Enrich(companies, employees)
	} else {
		result = domcompany.Wrap(companies)
	}

	paged := page.Slice(result, p.Window)

	logpkg.FromContext(ctx).Debug("Listed companies",
		zap.Int("loaded", loaded),
		zap.Int("filtered", len(companies)),
		zap.Int("returned", len(paged)),
		zap.Int("filter_fields", p.Filters.Len()),
		zap.String("mode", string(m)),
		zap.Bool("include_employees", p.IncludeEmployees),
	)
	return paged, nil
}

// ByIDs returns the companies whose id is in ids, always with employees.
// No match is an empty result, not an error.
func (s *Service) ByIDs(ctx context.Context, ids []int64) ([]domcompany.Company, error) {
	if len(ids) == 0 {
		return []domcompany.Company{}, nil
	}

	companies, err := s.source.LoadByIDs(ctx, record.Companies, ids)
	if err != nil {
		return nil, fmt.Errorf("load companies by ids: %w", err)
	}
	if len(companies) == 0 {
		return []domcompany.Company{}, nil
	}

	employees, err := s.source.Load(ctx, record.Employees)
	if err != nil {
		return nil, fmt.Errorf("load employees: %w", err)
	}

	result := domcompany.Enrich(companies, employees)
	logpkg.FromContext(ctx).Debug("Fetched companies by id",
		zap.Int("requested", len(ids)),
		zap.Int("returned", len(result)),
	)
	return result, nil
}
