// Package telemetry groups Ganymede's observability packages:
//
//   - logging builds the process *slog.Logger with rotation and redaction
//   - metrics defines the Prometheus collectors for adapters and chat requests
//   - tracing installs the OpenTelemetry provider and HTTP propagation
//   - health serves liveness, readiness and version probes
package telemetry
