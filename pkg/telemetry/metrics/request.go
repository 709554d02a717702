package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks chat request processing.
//
// Metrics:
//   - ganymede_chat_requests_total: requests by status
//   - ganymede_chat_duration_seconds: end-to-end request latency
type RequestMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewRequestMetrics creates and registers request metrics with registry.
func NewRequestMetrics(namespace string, registry prometheus.Registerer) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Total number of chat requests processed",
			},
			[]string{"status"},
		),

		requestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "duration_seconds",
				Help:      "Duration of chat requests in seconds",
				// Optimized for LLM request latencies (100ms - 60s)
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
		),
	}

	registry.MustRegister(rm.requestsTotal, rm.requestDuration)
	return rm
}

// RecordRequest records a completed chat request. status is a short label
// such as "success", "error" or "unauthorized".
func (rm *RequestMetrics) RecordRequest(status string, duration time.Duration) {
	if rm == nil {
		return
	}
	rm.requestsTotal.WithLabelValues(status).Inc()
	rm.requestDuration.Observe(duration.Seconds())
}
