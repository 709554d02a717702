// Package metrics provides Prometheus metrics collection for Ganymede.
//
// # Metrics Categories
//
//   - Adapter Metrics: adapter constructions, construction latency, cache
//     hits and misses, cached adapter count, teardown failures, retrievals
//   - Request Metrics: chat request count and duration
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	manager, _ := adaptermanager.NewManager(cfg, adaptermanager.Dependencies{
//		Metrics: collector.Adapters(),
//		...
//	})
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// All recording methods are safe to call on a nil receiver, so components
// can be built without metrics in tests.
package metrics
