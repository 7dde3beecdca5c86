package corpdex

import (
	"context"

	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
	healthuc "github.com/kailas-cloud/corpdex/internal/usecase/health"
)

// --- companyUseCase mock ---

type mockCompanyUC struct {
	listFn  func(ctx context.Context, p companyuc.ListParams) ([]domcompany.Company, error)
	byIDsFn func(ctx context.Context, ids []int64) ([]domcompany.Company, error)
}

func (m *mockCompanyUC) List(ctx context.Context, p companyuc.ListParams) ([]domcompany.Company, error) {
	return m.listFn(ctx, p)
}

func (m *mockCompanyUC) ByIDs(ctx context.Context, ids []int64) ([]domcompany.Company, error) {
	return m.byIDsFn(ctx, ids)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report {
	return m.report
}
