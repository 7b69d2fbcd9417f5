package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NVP gateway call metrics
	nvpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_nvp_requests_total",
			Help: "Total number of PayPal NVP requests by ACK status",
		},
		[]string{"api", "method", "ack"},
	)

	nvpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "paypal_nvp_request_duration_seconds",
			Help: "Duration of PayPal NVP round trips in seconds",
			// Buckets: 100ms to 45s (the transport timeout)
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 45},
		},
		[]string{"api", "method"},
	)

	nvpTransportErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_nvp_transport_errors_total",
			Help: "Total number of PayPal NVP requests that failed before a response body was read",
		},
		[]string{"api", "method"},
	)

	// Express Checkout callback metrics
	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paypal_nvp_callbacks_total",
			Help: "Total number of Express Checkout callback requests answered",
		},
		[]string{"outcome"}, // options, no_options, rejected
	)
)

// RecordNVPRequest records one completed gateway round trip
func RecordNVPRequest(api, method, ack string, duration time.Duration) {
	if ack == "" {
		ack = "unknown"
	}
	nvpRequestsTotal.WithLabelValues(api, method, ack).Inc()
	nvpRequestDuration.WithLabelValues(api, method).Observe(duration.Seconds())
}

// RecordNVPTransportError records a request whose transport call failed
func RecordNVPTransportError(api, method string) {
	nvpTransportErrorsTotal.WithLabelValues(api, method).Inc()
}

// RecordCallback records the outcome of an Express Checkout callback
func RecordCallback(outcome string) {
	callbacksTotal.WithLabelValues(outcome).Inc()
}
