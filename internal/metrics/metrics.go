// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_otp_requests_total",
			Help: "Total number of signup passcode requests.",
		},
		[]string{"result"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of passcode verification attempts.",
		},
		[]string{"result"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of bearer tokens issued.",
		},
		[]string{"flow"},
	)

	AuthRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_gate_rejections_total",
			Help: "Requests rejected by the authentication gate.",
		},
		[]string{"reason"},
	)
)

var registerOnce sync.Once

// MustRegister registers every collector with the default registry. Calling
// it more than once is a no-op.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			OTPRequestsTotal,
			AuthRegistrationsTotal,
			AuthLoginsTotal,
			TokensIssuedTotal,
			AuthRejectionsTotal,
		)
	})
}
