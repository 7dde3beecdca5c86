package corpdex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	domcompany "github.com/kailas-cloud/corpdex/internal/domain/company"
	"github.com/kailas-cloud/corpdex/internal/repository/fixture"
	"github.com/kailas-cloud/corpdex/internal/repository/snapshot"
	companyuc "github.com/kailas-cloud/corpdex/internal/usecase/company"
	healthuc "github.com/kailas-cloud/corpdex/internal/usecase/health"
)

const defaultDataDir = "data"

// companyUseCase is the internal interface swapped for a mock in tests.
type companyUseCase interface {
	List(ctx context.Context, p companyuc.ListParams) ([]domcompany.Company, error)
	ByIDs(ctx context.Context, ids []int64) ([]domcompany.Company, error)
}

// Client is the corpdex SDK entry point.
type Client struct {
	companySvc companyUseCase
	healthSvc  healthUseCase
	cache      *snapshot.Cache // nil when caching is off
	obs        *observer
}

// New creates a corpdex Client over a fixture directory.
// Storage is not touched until the first query; use Health to check it.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{dataDir: defaultDataDir}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.fsys == nil && cfg.dataDir == "" {
		return nil, errors.New("corpdex: data directory required (use WithDataDir or WithFS)")
	}
	if cfg.extension != "" && !strings.HasPrefix(cfg.extension, ".") {
		return nil, fmt.Errorf("corpdex: extension must start with \".\", got %q", cfg.extension)
	}
	if cfg.cacheTTL < 0 {
		return nil, fmt.Errorf("corpdex: cache ttl must not be negative, got %s", cfg.cacheTTL)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs), nil
}

func wireClient(cfg *clientConfig, obs *observer) *Client {
	fsys := cfg.fsys
	if fsys == nil {
		fsys = os.DirFS(cfg.dataDir)
	}

	loader := fixture.New(fsys, zap.NewNop()).
		WithMetrics(obs.fixtureCounters()).
		WithSkipHook(obs.fixtureSkipped)
	if cfg.extension != "" {
		loader = loader.WithExtension(cfg.extension)
	}
	loader = loader.WithConcurrency(cfg.concurrency)

	c := &Client{
		healthSvc: healthuc.New(loader),
		obs:       obs,
	}

	var source companyuc.RecordSource = loader
	if cfg.cacheTTL > 0 {
		c.cache = snapshot.New(loader, cfg.cacheTTL, nil, zap.NewNop())
		source = c.cache
	}
	c.companySvc = companyuc.New(source)
	return c
}

// Companies returns the company query service.
func (c *Client) Companies() *CompanyService {
	return &CompanyService{svc: c.companySvc, obs: c.obs}
}

// Refresh drops cached snapshots so the next query rereads storage.
// No-op when caching is off.
func (c *Client) Refresh() {
	if c.cache != nil {
		c.cache.Invalidate()
	}
}
