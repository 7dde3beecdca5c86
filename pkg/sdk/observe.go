package corpdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/corpdex/internal/domain/record"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	filesSkipped *prometheus.CounterVec
	recordsRead  *prometheus.CounterVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corpdex",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "corpdex",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		filesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corpdex",
			Subsystem: "sdk",
			Name:      "fixture_files_skipped_total",
			Help:      "Fixture files skipped because they could not be read or parsed.",
		}, []string{"kind", "reason"}),
		recordsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corpdex",
			Subsystem: "sdk",
			Name:      "fixture_records_loaded_total",
			Help:      "Records decoded from fixture files.",
		}, []string{"kind"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.filesSkipped); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.recordsRead); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("corpdex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("corpdex: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// fixtureCounters returns the loader counters, or nils when metrics are off.
func (o *observer) fixtureCounters() (skipped, loaded *prometheus.CounterVec) {
	if o == nil || o.metrics == nil {
		return nil, nil
	}
	return o.metrics.filesSkipped, o.metrics.recordsRead
}

// fixtureSkipped reports a fixture file the loader could not use.
func (o *observer) fixtureSkipped(kind record.Kind, file, reason string, err error) {
	if o == nil || o.logger == nil {
		return
	}
	o.logger.Warn("fixture file skipped",
		"kind", string(kind),
		"file", file,
		"reason", reason,
		"error", err,
	)
}

func (o *observer) observe(op string, start time.Time, results int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed",
				"op", op,
				"duration", dur,
				"error", err,
			)
		} else {
			o.logger.Debug("operation completed",
				"op", op,
				"duration", dur,
				"results", results,
			)
		}
	}
}
