package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcrm_http_requests_total",
			Help: "HTTP requests by route template and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetcrm_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Audit trail metrics
var (
	// AuditRecordsTotal counts audit writes by outcome: stored, failed or dropped
	AuditRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcrm_audit_records_total",
			Help: "Audit record writes by action and outcome",
		},
		[]string{"action", "result"},
	)

	AuditWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fleetcrm_audit_write_duration_seconds",
			Help:    "Audit store write latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	AuditWritesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetcrm_audit_writes_in_flight",
			Help: "Audit writes dispatched but not finished",
		},
	)
)

// Integration metrics
var (
	DashboardCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcrm_dashboard_cache_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)

	ExternalCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcrm_external_calls_total",
			Help: "Calls to third party services by service and result",
		},
		[]string{"service", "result"},
	)
)

const (
	ResultStored  = "stored"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
	ResultSuccess = "success"
	ResultError   = "error"
	ResultHit     = "hit"
	ResultMiss    = "miss"
)

// ObserveExternalCall records the outcome of a third party call
func ObserveExternalCall(service string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	ExternalCallsTotal.WithLabelValues(service, result).Inc()
}
