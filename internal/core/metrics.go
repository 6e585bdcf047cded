// AngelaMos | 2026
// metrics.go

package core

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	AuthzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Authorization guard outcomes.",
		},
		[]string{"outcome"},
	)

	ServiceActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "service_activations_total",
			Help: "Services moved from pending to active.",
		},
		[]string{"interval"},
	)
)

var registerOnce sync.Once

// RegisterMetrics adds the collectors to the default registry. Safe to call
// more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight,
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthzDecisions,
			ServiceActivations,
		)
	})
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
