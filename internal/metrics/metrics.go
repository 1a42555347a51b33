package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, route, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seed_app_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// SubmissionsTotal counts prompt submissions by outcome.
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "seed_app_submissions_total",
		Help: "Prompt submissions by outcome (success, config_error, timeout, upstream_error, schema_error).",
	}, []string{"outcome"})

	// UpstreamDuration tracks inference round-trip latency per protocol.
	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "seed_app_upstream_duration_seconds",
		Help:    "Time spent waiting on the inference backend.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"protocol"})
)

// ObserveSubmission records the outcome of one submission.
func ObserveSubmission(outcome string) {
	SubmissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveUpstream records how long an upstream call took.
func ObserveUpstream(protocol string, d time.Duration) {
	UpstreamDuration.WithLabelValues(protocol).Observe(d.Seconds())
}
