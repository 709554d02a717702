package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdapterMetrics tracks the adapter manager.
//
// Metrics:
//   - ganymede_adapter_constructions_total: constructions by adapter and result
//   - ganymede_adapter_construction_duration_seconds: construction latency
//   - ganymede_adapter_cache_hits_total / _cache_misses_total: lookups by adapter
//   - ganymede_adapter_cached: current number of cached adapters
//   - ganymede_adapter_teardown_failures_total: failed Close calls by adapter
//   - ganymede_adapter_retrievals_total: proxy retrievals by adapter and result
type AdapterMetrics struct {
	constructionsTotal   *prometheus.CounterVec
	constructionDuration *prometheus.HistogramVec
	cacheHits            *prometheus.CounterVec
	cacheMisses          *prometheus.CounterVec
	cached               prometheus.Gauge
	teardownFailures     *prometheus.CounterVec
	retrievalsTotal      *prometheus.CounterVec
}

// NewAdapterMetrics creates and registers adapter metrics with registry.
func NewAdapterMetrics(namespace string, registry prometheus.Registerer) *AdapterMetrics {
	am := &AdapterMetrics{
		constructionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "constructions_total",
				Help:      "Total number of adapter constructions",
			},
			[]string{"adapter", "result"},
		),

		constructionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "construction_duration_seconds",
				Help:      "Duration of adapter construction and initialization in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"adapter"},
		),

		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "cache_hits_total",
				Help:      "Total number of adapter lookups served from cache",
			},
			[]string{"adapter"},
		),

		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "cache_misses_total",
				Help:      "Total number of adapter lookups that waited for construction",
			},
			[]string{"adapter"},
		),

		cached: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "cached",
				Help:      "Current number of cached adapters",
			},
		),

		teardownFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "teardown_failures_total",
				Help:      "Total number of adapters that failed to close",
			},
			[]string{"adapter"},
		),

		retrievalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "adapter",
				Name:      "retrievals_total",
				Help:      "Total number of context retrievals",
			},
			[]string{"adapter", "result"},
		),
	}

	registry.MustRegister(
		am.constructionsTotal,
		am.constructionDuration,
		am.cacheHits,
		am.cacheMisses,
		am.cached,
		am.teardownFailures,
		am.retrievalsTotal,
	)

	return am
}

// RecordConstruction records a finished construction attempt.
func (am *AdapterMetrics) RecordConstruction(adapter string, err error, duration time.Duration) {
	if am == nil {
		return
	}
	am.constructionsTotal.WithLabelValues(adapter, result(err)).Inc()
	am.constructionDuration.WithLabelValues(adapter).Observe(duration.Seconds())
}

// RecordCacheHit records a lookup served from cache.
func (am *AdapterMetrics) RecordCacheHit(adapter string) {
	if am == nil {
		return
	}
	am.cacheHits.WithLabelValues(adapter).Inc()
}

// RecordCacheMiss records a lookup that had to wait for construction.
func (am *AdapterMetrics) RecordCacheMiss(adapter string) {
	if am == nil {
		return
	}
	am.cacheMisses.WithLabelValues(adapter).Inc()
}

// SetCached sets the number of cached adapters.
func (am *AdapterMetrics) SetCached(n int) {
	if am == nil {
		return
	}
	am.cached.Set(float64(n))
}

// RecordTeardownFailure records an adapter whose Close failed.
func (am *AdapterMetrics) RecordTeardownFailure(adapter string) {
	if am == nil {
		return
	}
	am.teardownFailures.WithLabelValues(adapter).Inc()
}

// RecordRetrieval records a proxy retrieval outcome.
func (am *AdapterMetrics) RecordRetrieval(adapter string, err error) {
	if am == nil {
		return
	}
	am.retrievalsTotal.WithLabelValues(adapter, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
