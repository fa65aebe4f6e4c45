package exports

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthexport",
			Subsystem: "exports",
			Name:      "runs_total",
			Help:      "Export runs by format, applied write mode and status.",
		},
		[]string{"format", "applied_mode", "status"},
	)

	updateFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthexport",
			Subsystem: "exports",
			Name:      "update_fallbacks_total",
			Help:      "Update requests applied as overwrite because the format has no sections.",
		},
		[]string{"format"},
	)

	documentBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "healthexport",
			Subsystem: "exports",
			Name:      "document_bytes",
			Help:      "Size of written vault documents.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 7),
		},
		[]string{"format"},
	)
)
