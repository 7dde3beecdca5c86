package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fixture loading and snapshot cache Prometheus metrics.
var (
	FixtureFilesSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_files_skipped_total",
			Help:      "Fixture files skipped during load",
		},
		[]string{"kind", "reason"}, // reason: "read" / "parse"
	)

	FixtureRecordsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixture_records_loaded_total",
			Help:      "Records merged from fixture files",
		},
		[]string{"kind"},
	)

	SnapshotCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_cache_total",
			Help:      "Snapshot cache hits and misses",
		},
		[]string{"kind", "result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// Register registers all corpdex collectors with the default registry.
// Safe to call more than once; the CLI never calls it.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			HTTPRequestsTotal,
			HTTPRequestsInFlight,
			FixtureFilesSkippedTotal,
			FixtureRecordsLoadedTotal,
			SnapshotCacheTotal,
		)
	})
}
