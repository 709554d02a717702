package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/ganymede/pkg/config"
)

// Collector owns the Prometheus registry and the metric groups registered
// on it.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	adapterMetrics *AdapterMetrics
	requestMetrics *RequestMetrics
}

// NewCollector creates a collector and registers every metric group. If
// registry is nil a fresh registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:         cfg,
		registry:       registry,
		adapterMetrics: NewAdapterMetrics(cfg.Namespace, registry),
		requestMetrics: NewRequestMetrics(cfg.Namespace, registry),
	}
}

// Adapters returns the adapter metric group.
func (c *Collector) Adapters() *AdapterMetrics {
	if c == nil {
		return nil
	}
	return c.adapterMetrics
}

// Requests returns the request metric group.
func (c *Collector) Requests() *RequestMetrics {
	if c == nil {
		return nil
	}
	return c.requestMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
