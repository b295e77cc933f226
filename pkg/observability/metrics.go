package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// FetchesTotal tracks the total number of remote fetches by outcome
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drawsync_remote_fetches_total",
			Help: "Total number of remote draw fetches",
		},
		[]string{"status"}, // status: success, not_found, transient, malformed, error
	)

	// FetchDuration measures remote fetch duration in seconds
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drawsync_remote_fetch_duration_seconds",
			Help:    "Remote draw fetch duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
	)

	// FetchRetriesTotal counts retries of transient fetch failures
	FetchRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drawsync_fetch_retries_total",
			Help: "Total number of fetch retries after transient failures",
		},
	)

	// BatchesTotal tracks acquisition batches by outcome
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drawsync_batches_total",
			Help: "Total number of acquisition batches processed",
		},
		[]string{"status"}, // status: complete, partial
	)

	// StoreDraws tracks the number of draws in the local store
	StoreDraws = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drawsync_store_draws",
			Help: "Number of draw records in the local store",
		},
	)

	// MissingDraws tracks draw numbers that could not be acquired
	MissingDraws = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drawsync_missing_draws",
			Help: "Number of draw numbers reported missing by the last sync",
		},
	)

	// SyncRunsTotal counts sync runs by mode and outcome
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drawsync_sync_runs_total",
			Help: "Total number of sync runs",
		},
		[]string{"mode", "status"}, // mode: bootstrap, incremental, up_to_date; status: success, partial, error
	)

	// SyncDuration measures sync run duration in seconds
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drawsync_sync_duration_seconds",
			Help:    "Sync run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14), // 0.1s to ~27m
		},
		[]string{"mode"},
	)

	// CheckpointsTotal counts durable checkpoints written during bootstrap
	CheckpointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drawsync_checkpoints_total",
			Help: "Total number of acquisition checkpoints written",
		},
	)
)

// RecordFetch records one remote fetch outcome
func RecordFetch(status string, duration float64) {
	FetchesTotal.WithLabelValues(status).Inc()
	FetchDuration.Observe(duration)
}

// RecordFetchRetry records one retry of a transient failure
func RecordFetchRetry() {
	FetchRetriesTotal.Inc()
}

// RecordBatch records one processed acquisition batch
func RecordBatch(status string) {
	BatchesTotal.WithLabelValues(status).Inc()
}

// RecordCheckpoint records one durable checkpoint write
func RecordCheckpoint() {
	CheckpointsTotal.Inc()
}

// RecordSyncRun records the outcome of a sync run
func RecordSyncRun(mode, status string, duration float64) {
	SyncRunsTotal.WithLabelValues(mode, status).Inc()
	SyncDuration.WithLabelValues(mode).Observe(duration)
}
