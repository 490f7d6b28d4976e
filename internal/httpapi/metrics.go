package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// classificationsTotal counts classify and assess results.
	// Labels: bucket
	classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kodex",
		Subsystem: "classify",
		Name:      "classifications_total",
		Help:      "Total classifications by resulting bucket",
	}, []string{"bucket"})

	// estimateFailuresTotal counts estimates returned with an error tag.
	// Labels: reason
	estimateFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kodex",
		Subsystem: "estimate",
		Name:      "failures_total",
		Help:      "Total exposure estimates that could not be computed",
	}, []string{"reason"})

	assessmentsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "kodex",
		Subsystem: "repository",
		Name:      "assessments_stored_total",
		Help:      "Total assessment versions written",
	})

	// requestDuration measures handler latency.
	// Labels: route (the registered path), status
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "kodex",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"route", "status"})
)
