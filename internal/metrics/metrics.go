// Package metrics provides Prometheus metrics for pull runs. A CLI run has no
// scrape endpoint, so the registry can be exported in textfile-collector
// format with WriteTextfile.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pullFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magnus_pull_files_total",
			Help: "Total number of files pulled from the server",
		},
		[]string{"status"},
	)

	pullFoldersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "magnus_pull_folders_total",
			Help: "Total number of remote folders descended into",
		},
	)

	pullSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magnus_pull_skipped_total",
			Help: "Total number of entries skipped during pull",
		},
		[]string{"reason"},
	)

	pullBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "magnus_pull_bytes_total",
			Help: "Total bytes written by pull",
		},
	)

	pullDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "magnus_pull_duration_seconds",
			Help:    "Duration of a pull run in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	pullCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "magnus_pull_name_collisions_total",
			Help: "Total local name collisions detected during pull",
		},
	)

	storageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "magnus_storage_operations_total",
			Help: "Total output backend operations",
		},
		[]string{"operation", "status"},
	)

	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "magnus_storage_operation_duration_seconds",
			Help:    "Output backend operation duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Skip reasons.
const (
	SkipIgnored    = "ignored"
	SkipPermission = "permission"
	SkipEmptyName  = "empty_name"
)

// RecordFile records a pulled file.
func RecordFile(bytes int64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	pullFilesTotal.WithLabelValues(status).Inc()
	if success {
		pullBytesTotal.Add(float64(bytes))
	}
}

// RecordFolder records a folder descent.
func RecordFolder() {
	pullFoldersTotal.Inc()
}

// RecordSkip records a skipped entry.
func RecordSkip(reason string) {
	pullSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordCollision records two remote entries mapping to one local name.
func RecordCollision() {
	pullCollisionsTotal.Inc()
}

// RecordPull records the duration of a pull run.
func RecordPull(duration time.Duration) {
	pullDuration.Observe(duration.Seconds())
}

// RecordStorageOperation records an output backend operation.
func RecordStorageOperation(operation string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	storageOperationsTotal.WithLabelValues(operation, status).Inc()
	storageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// WriteTextfile writes all registered metrics to path in the Prometheus
// text format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
