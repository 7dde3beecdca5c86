package corpdex

import (
	"context"
	"fmt"
	"time"

	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	"github.com/kailas-cloud/corpdex/internal/domain/query/filter"
	"github.com/kailas-cloud/corpdex/internal/domain/query/idlist"
	"github.com/kailas-cloud/corpdex/internal/domain/query/page"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
)

const defaultLimit = 10

// CompanyService queries companies.
type CompanyService struct {
	svc companyUseCase
	obs *observer
}

// ListOptions are the parameters of a company listing.
// Filters values are matched as case-insensitive substrings; bool values match by equality.
//
// The zero value is taken literally: Limit 0 yields an empty page and
// IncludeEmployees false omits the employees array. Start from
// DefaultListOptions to get the same defaults as Query and the HTTP API.
type ListOptions struct {
	Filters          map[string]any
	Mode             Mode // default Inclusive
	Offset           int
	Limit            int
	IncludeEmployees bool
}

// DefaultListOptions returns an inclusive, unfiltered listing of the first
// 10 companies with employees attached.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Filters:          map[string]any{},
		Mode:             Inclusive,
		Limit:            defaultLimit,
		IncludeEmployees: true,
	}
}

// List filters all companies, optionally attaches employees, then returns one page.
func (s *CompanyService) List(ctx context.Context, opts ListOptions) (_ []Record, err error) {
	start := time.Now()
	var out []Record
	defer func() { s.obs.observe("companies.list", start, len(out), err) }()

	window, err := page.New(opts.Offset, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	if len(opts.Filters) > filter.MaxFields {
		return nil, fmt.Errorf("list companies: too many filters (max %d)", filter.MaxFields)
	}

	companies, err := s.svc.List(ctx, companyuc.ListParams{
		Window:           window,
		Filters:          filter.NewSpec(opts.Filters),
		Mode:             opts.Mode,
		IncludeEmployees: opts.IncludeEmployees,
	})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	out = flatten(companies)
	return out, nil
}

// Get returns the companies whose id is in ids, in storage order, each with
// its employees. An empty result is not an error.
func (s *CompanyService) Get(ctx context.Context, ids ...int64) (_ []Record, err error) {
	start := time.Now()
	var out []Record
	defer func() { s.obs.observe("companies.get", start, len(out), err) }()

	companies, err := s.svc.ByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get companies: %w", err)
	}
	out = flatten(companies)
	return out, nil
}

// GetString parses a comma-separated id list such as "11,27" and returns the
// matching companies like Get. At most idlist.DefaultMaxIDs ids are accepted;
// failures match ErrMalformedIDs or ErrTooManyIDs.
func (s *CompanyService) GetString(ctx context.Context, raw string) ([]Record, error) {
	ids, err := idlist.Parse(raw, idlist.DefaultMaxIDs)
	if err != nil {
		err = fmt.Errorf("get companies: %w", err)
		s.obs.observe("companies.get", time.Now(), 0, err)
		return nil, err
	}
	return s.Get(ctx, ids...)
}

// Query starts a fluent listing from DefaultListOptions.
func (s *CompanyService) Query() *QueryBuilder {
	return &QueryBuilder{svc: s, opts: DefaultListOptions()}
}

func flatten(companies []domcompany.Company) []Record {
	out := make([]Record, len(companies))
	for i, c := range companies {
		out[i] = c.Flatten()
	}
	return out
}

// QueryBuilder is a fluent builder for company listings.
type QueryBuilder struct {
	svc  *CompanyService
	opts ListOptions
}

// Where adds a substring filter on field. A repeated field replaces the earlier value.
func (b *QueryBuilder) Where(field, value string) *QueryBuilder {
	b.opts.Filters[field] = value
	return b
}

// WhereBool adds an equality filter on a boolean field.
func (b *QueryBuilder) WhereBool(field string, value bool) *QueryBuilder {
	b.opts.Filters[field] = value
	return b
}

// Exclusive keeps companies that do not match the filters.
func (b *QueryBuilder) Exclusive() *QueryBuilder {
	b.opts.Mode = Exclusive
	return b
}

// Offset skips the first n matching companies.
func (b *QueryBuilder) Offset(n int) *QueryBuilder {
	b.opts.Offset = n
	return b
}

// Limit sets the page size.
func (b *QueryBuilder) Limit(n int) *QueryBuilder {
	b.opts.Limit = n
	return b
}

// WithoutEmployees omits the employees array.
func (b *QueryBuilder) WithoutEmployees() *QueryBuilder {
	b.opts.IncludeEmployees = false
	return b
}

// Do executes the query.
func (b *QueryBuilder) Do(ctx context.Context) ([]Record, error) {
	return b.svc.List(ctx, b.opts)
}
