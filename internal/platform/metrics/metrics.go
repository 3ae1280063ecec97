// Package metrics expone contadores Prometheus del tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medtracker"

var (
	// PlanMutations cuenta altas/ediciones/bajas de planes por resultado.
	PlanMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "plan_mutations_total",
			Help:      "Total number of treatment plan mutations by operation and result",
		},
		[]string{"op", "result"},
	)

	DoseToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "dose_toggles_total",
			Help:      "Total number of dose toggles by resulting taken state",
		},
		[]string{"taken"},
	)

	// DosesGenerated cuenta dosis producidas por la expansión de planes.
	DosesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "doses_generated_total",
			Help:      "Total number of doses generated from plan expansion",
		},
	)

	SnapshotWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "snapshot_writes_total",
			Help:      "Total number of snapshot writes by result",
		},
		[]string{"result"},
	)

	// OutboundRequests cuenta requests del cliente HTTP compartido.
	OutboundRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "requests_total",
			Help:      "Total number of outbound HTTP requests",
		},
		[]string{"method", "status_code"},
	)

	OutboundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of outbound HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method"},
	)
)

// Result normaliza el label result.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
