package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10},
		},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)

	dispatchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "frontctl_dispatch_total", Help: "dispatch decisions by outcome"},
		[]string{"outcome"},
	)

	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "frontctl_scan_duration_seconds",
			Help:    "namespace scan and bind duration.",
			Buckets: prometheus.DefBuckets,
		},
	)

	routeTableEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "frontctl_route_table_entries", Help: "routes in the most recently built table"},
	)

	scanSkipped = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "frontctl_scan_skipped_candidates", Help: "candidates skipped by the most recent scan"},
	)
)

// Dispatch outcomes.
const (
	OutcomeDiagnostics = "diagnostics"
	OutcomeStatic      = "static"
	OutcomeHandler     = "handler"
	OutcomeNotFound    = "not_found"
	OutcomeFailure     = "failure"
)

// RecordDispatch counts one dispatch decision.
func RecordDispatch(outcome string) {
	dispatchOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveScan records the result of one scan+bind pass.
func ObserveScan(d time.Duration, entries, skipped int) {
	scanDuration.Observe(d.Seconds())
	routeTableEntries.Set(float64(entries))
	scanSkipped.Set(float64(skipped))
}

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsToUri,
		totalHttpRequests,
		dispatchOutcomes,
		scanDuration,
		routeTableEntries,
		scanSkipped,
	)
}
