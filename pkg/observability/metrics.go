// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the gate service.
package observability

import "github.com/prometheus/client_golang/prometheus"

// hashBuckets covers password hashing latencies from sub-millisecond
// (low cost factors) up to multi-second hardened deployments.
var hashBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "gate_request_duration_seconds",
			Help: "Request duration",
		},
		[]string{"method"},
	)

	// VerificationsTotal counts verification attempts by strategy
	// (password, basic, hmac, session) and outcome (granted, denied,
	// redirect, error).
	VerificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_verifications_total",
			Help: "Verification attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// RejectionsTotal counts business rejections by strategy and reason.
	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_rejections_total",
			Help: "Business rejections",
		},
		[]string{"strategy", "reason"},
	)

	// LockoutsTotal counts credentials newly locked by the failure path.
	LockoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gate_lockouts_total",
			Help: "Lockouts applied",
		},
	)

	// PasswordVerifySeconds records the duration of password hash
	// comparisons, the intentionally expensive step of the password path.
	PasswordVerifySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gate_password_verify_seconds",
			Help:    "Password comparison duration",
			Buckets: hashBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		VerificationsTotal,
		RejectionsTotal,
		LockoutsTotal,
		PasswordVerifySeconds,
	)
}
