// Package metrics implements Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CaptureFramesTotal counts frames read from the capture facility by interface
	CaptureFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_capture_frames_total",
			Help: "Total number of frames read from the capture facility",
		},
		[]string{"interface"},
	)

	// DecodeFailuresTotal counts frames dropped because they could not be decoded
	DecodeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_decode_failures_total",
			Help: "Total number of frames dropped by the decoder",
		},
		[]string{"interface"},
	)

	// RecordsTotal counts decoded records by protocol label
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_records_total",
			Help: "Total number of decoded packet records",
		},
		[]string{"protocol"},
	)

	// StoreEvictionsTotal counts records evicted from the packet store
	StoreEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netsniff_store_evictions_total",
			Help: "Total number of records evicted from the packet store",
		},
	)

	// CaptureStartsTotal counts start attempts by result
	CaptureStartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_capture_starts_total",
			Help: "Total number of capture start attempts",
		},
		[]string{"result"},
	)

	// WorkerJoinTimeoutsTotal counts capture workers abandoned by Stop
	WorkerJoinTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netsniff_worker_join_timeouts_total",
			Help: "Total number of capture workers that did not stop within the join timeout",
		},
	)

	// CaptureRunning is 1 while a capture session is running
	CaptureRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netsniff_capture_running",
			Help: "Whether a capture session is running (0=idle, 1=running)",
		},
	)

	// ExportedRecordsTotal counts records published by the exporter
	ExportedRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsniff_exported_records_total",
			Help: "Total number of records published to the export sink",
		},
		[]string{"sink", "result"},
	)
)

// Start results
const (
	StartOK               = "ok"
	StartInvalidInterface = "invalid_interface"
	StartFailure          = "start_failure"
)

// Handler returns the exposition handler of the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
