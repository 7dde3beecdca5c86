package corpdex

import (
	"io/fs"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dataDir     string
	fsys        fs.FS
	extension   string
	concurrency int
	cacheTTL    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDataDir reads fixtures from a directory on disk. Default: "data".
func WithDataDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dataDir = dir
	})
}

// WithFS reads fixtures from an arbitrary file system (embed.FS, fstest.MapFS).
// Takes precedence over WithDataDir.
func WithFS(fsys fs.FS) Option {
	return optionFunc(func(c *clientConfig) {
		c.fsys = fsys
	})
}

// WithExtension sets the fixture file extension. Default: ".json".
func WithExtension(ext string) Option {
	return optionFunc(func(c *clientConfig) {
		c.extension = ext
	})
}

// WithConcurrency bounds how many fixture files are parsed in parallel.
func WithConcurrency(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.concurrency = n
	})
}

// WithCacheTTL keeps loaded records in memory for ttl.
// Zero (default) rereads storage on every query.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations,
// skipped fixture files) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
