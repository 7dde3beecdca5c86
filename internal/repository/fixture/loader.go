package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/corpdex/internal/domain"
	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// Loader defaults.
const (
	DefaultExtension   = ".json"
	DefaultConcurrency = 4
)

// errNotArray is recorded for files whose top-level value is not a JSON array.
var errNotArray = errors.New("top-level value is not an array")

// Loader reads record kinds from fixture files. Each kind lives in a
// directory of the same name under the root file system.
type Loader struct {
	fsys        fs.FS
	ext         string
	concurrency int
	skipped     *prometheus.CounterVec
	loaded      *prometheus.CounterVec
	onSkip      SkipFunc
	logger      *zap.Logger
}

// SkipFunc observes a file the loader skipped. reason is "read" or "parse".
type SkipFunc func(kind record.Kind, file, reason string, err error)

// New creates a Loader over fsys. Safe for concurrent use if fsys is.
func New(fsys fs.FS, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		fsys:        fsys,
		ext:         DefaultExtension,
		concurrency: DefaultConcurrency,
		logger:      logger.Named("fixture"),
	}
}

// WithExtension sets the data file extension (".json" by default).
func (l *Loader) WithExtension(ext string) *Loader {
	if ext != "" {
		l.ext = ext
	}
	return l
}

// WithConcurrency bounds how many files are parsed in parallel.
func (l *Loader) WithConcurrency(n int) *Loader {
	if n > 0 {
		l.concurrency = n
	}
	return l
}

// WithMetrics attaches counters labelled {kind, reason} and {kind}. Either may be nil.
func (l *Loader) WithMetrics(skipped, loaded *prometheus.CounterVec) *Loader {
	l.skipped = skipped
	l.loaded = loaded
	return l
}

// WithSkipHook registers fn to run, in file order, for every skipped file.
// It runs in addition to the Warn log.
func (l *Loader) WithSkipHook(fn SkipFunc) *Loader {
	l.onSkip = fn
	return l
}

// fileResult is the outcome of loading one file.
type fileResult struct {
	name    string
	records []record.Record
	err     error
	reason  string
}

// Load returns every record of kind, concatenated in file name order.
// Unreadable or malformed files are skipped and logged.
func (l *Loader) Load(ctx context.Context, kind record.Kind) ([]record.Record, error) {
	return l.load(ctx, kind, nil)
}

// LoadByIDs is Load narrowed to records whose id is in ids.
func (l *Loader) LoadByIDs(ctx context.Context, kind record.Kind, ids []int64) ([]record.Record, error) {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return l.load(ctx, kind, want)
}

// Ping checks that the storage location of kind is a readable directory.
func (l *Loader) Ping(_ context.Context, kind record.Kind) error {
	info, err := fs.Stat(l.fsys, string(kind))
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrStorageUnavailable, kind)
	}
	return nil
}

func (l *Loader) load(ctx context.Context, kind record.Kind, want map[int64]struct{}) ([]record.Record, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	names, err := l.candidates(kind)
	if err != nil {
		return nil, err
	}

	results := make([]fileResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck // context error is returned as-is
			}
			results[i] = l.readFile(name, want)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}

	var merged []record.Record
	for _, res := range results {
		if res.err != nil {
			l.skip(kind, res)
			continue
		}
		merged = append(merged, res.records...)
	}
	if merged == nil {
		merged = []record.Record{}
	}

	if l.loaded != nil {
		l.loaded.WithLabelValues(string(kind)).Add(float64(len(merged)))
	}
	return merged, nil
}

// candidates lists data files of kind in lexical order.
func (l *Loader) candidates(kind record.Kind) ([]string, error) {
	dir := string(kind)
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorageUnavailable, dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), l.ext) {
			continue
		}
		names = append(names, path.Join(dir, e.Name()))
	}
	return names, nil
}

func (l *Loader) readFile(name string, want map[int64]struct{}) fileResult {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return fileResult{name: name, err: err, reason: "read"}
	}
	recs, err := parseArray(data, want)
	if err != nil {
		return fileResult{name: name, err: err, reason: "parse"}
	}
	return fileResult{name: name, records: recs}
}

func (l *Loader) skip(kind record.Kind, res fileResult) {
	l.logger.Warn("Skipping fixture file",
		zap.String("kind", string(kind)),
		zap.String("file", res.name),
		zap.String("reason", res.reason),
		zap.Error(res.err),
	)
	if l.skipped != nil {
		l.skipped.WithLabelValues(string(kind), res.reason).Inc()
	}
	if l.onSkip != nil {
		l.onSkip(kind, res.name, res.reason, res.err)
	}
}

// parseArray decodes a JSON array of objects. Non-object elements are dropped.
// When want is non-nil only records with a matching id are kept.
func parseArray(data []byte, want map[int64]struct{}) ([]record.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if !json.Valid(trimmed) {
			return nil, errors.New("invalid JSON")
		}
		return nil, errNotArray
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}

	out := make([]record.Record, 0, len(elems))
	for _, raw := range elems {
		r, err := record.Decode(raw)
		if err != nil {
			continue
		}
		if want != nil {
			id, ok := r.ID()
			if !ok {
				continue
			}
			if _, hit := want[id]; !hit {
				continue
			}
		}
		out = append(out, r)
	}
	return out, nil
}
