package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ClientMetrics counts remote calls and checkout outcomes. A nil
// *ClientMetrics is valid and records nothing.
type ClientMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Checkouts *prometheus.CounterVec
}

func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ashmart",
		Subsystem: "client",
		Name:      "api_requests_total",
		Help:      "Total number of storefront API requests.",
	}, []string{"endpoint", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ashmart",
		Subsystem: "client",
		Name:      "api_request_duration_ms",
		Help:      "Storefront API request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"endpoint"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ashmart",
		Subsystem: "client",
		Name:      "checkout_attempts_total",
		Help:      "Checkout attempts by final outcome.",
	}, []string{"outcome"})

	reg.MustRegister(requests, latency, checkouts)
	return &ClientMetrics{Requests: requests, LatencyMS: latency, Checkouts: checkouts}
}

func (m *ClientMetrics) ObserveRequest(endpoint, status string, durationMS int64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, status).Inc()
	m.LatencyMS.WithLabelValues(endpoint).Observe(float64(durationMS))
}

func (m *ClientMetrics) ObserveCheckout(outcome string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
