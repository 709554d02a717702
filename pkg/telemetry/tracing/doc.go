// Package tracing configures OpenTelemetry tracing.
//
// Setup installs a global tracer provider that batches spans to an OTLP gRPC
// collector. Packages create spans through otel.Tracer, so they record
// nothing until Setup runs with tracing enabled:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: "otel-collector:4317"
//	    insecure: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//
// HTTPMiddleware continues traces from incoming traceparent headers, so a
// chat request, its adapter construction and its retrieval share one trace.
package tracing
