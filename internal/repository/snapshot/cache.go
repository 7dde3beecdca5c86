package snapshot

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// source is the consumer interface for the underlying loader (ISP).
type source interface {
	Load(ctx context.Context, kind record.Kind) ([]record.Record, error)
}

type entry struct {
	records  []record.Record
	loadedAt time.Time
}

// Cache keeps the last loaded snapshot of each record kind for ttl.
// Snapshots are replaced atomically; concurrent misses share one load.
// Returned slices are shared between callers and must not be modified.
type Cache struct {
	src        source
	ttl        time.Duration
	now        func() time.Time
	entries    map[record.Kind]*atomic.Pointer[entry]
	group      singleflight.Group
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a snapshot cache in front of src.
// cacheTotal is a counter vec with labels "kind" and "result" ("hit"/"miss"); it may be nil.
func New(src source, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries := make(map[record.Kind]*atomic.Pointer[entry], len(record.Kinds()))
	for _, k := range record.Kinds() {
		entries[k] = &atomic.Pointer[entry]{}
	}
	return &Cache{
		src:        src,
		ttl:        ttl,
		now:        time.Now,
		entries:    entries,
		cacheTotal: cacheTotal,
		logger:     logger.Named("snapshot"),
	}
}

// Load returns the cached snapshot of kind, reloading it once it is older than ttl.
func (c *Cache) Load(ctx context.Context, kind record.Kind) ([]record.Record, error) {
	slot, ok := c.entries[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	if e := slot.Load(); e != nil && c.now().Sub(e.loadedAt) < c.ttl {
		c.inc(kind, "hit")
		return e.records, nil
	}
	c.inc(kind, "miss")

	// The shared load must not be cut short by whichever caller arrived first.
	loadCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(string(kind), func() (any, error) {
		recs, err := c.src.Load(loadCtx, kind)
		if err != nil {
			return nil, err
		}
		slot.Store(&entry{records: recs, loadedAt: c.now()})
		c.logger.Debug("Snapshot refreshed",
			zap.String("kind", string(kind)),
			zap.Int("records", len(recs)),
		)
		return recs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh %s snapshot: %w", kind, err)
	}
	if shared {
		c.logger.Debug("Snapshot load shared", zap.String("kind", string(kind)))
	}
	return v.([]record.Record), nil
}

// LoadByIDs narrows the cached snapshot of kind to ids.
func (c *Cache) LoadByIDs(ctx context.Context, kind record.Kind, ids []int64) ([]record.Record, error) {
	recs, err := c.Load(ctx, kind)
	if err != nil {
		return nil, err
	}
	return record.FilterByIDs(recs, ids), nil
}

// Invalidate drops every cached snapshot; the next Load of each kind reloads.
func (c *Cache) Invalidate() {
	for _, slot := range c.entries {
		slot.Store(nil)
	}
}

func (c *Cache) inc(kind record.Kind, result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(string(kind), result).Inc()
	}
}
