// Package server exposes Ganymede over HTTP.
//
// # Routes
//
//   - POST /v1/chat: chat with retrieval, authenticated by API key
//   - GET /health, /ready, /version: probes and build information
//   - GET /health/adapters: adapter manager and warmer state
//   - GET /admin/adapters: configured and cached adapters
//   - POST /admin/adapters/preload?timeout=30s: preload every adapter
//   - POST /admin/adapters/{name}/preload: preload one adapter
//   - DELETE /admin/adapters/{name}: evict and close one adapter
//   - DELETE /admin/adapters: evict and close every adapter
//   - GET {telemetry.metrics.path}: Prometheus metrics, when enabled
//
// The API key selects the adapter and system prompt of a chat request, so
// clients only send the message and optional history:
//
//	POST /v1/chat
//	Authorization: Bearer sk-support-team
//
//	{"message": "How do I reset my password?"}
//
// Admin routes require an HS256 bearer token when admin auth is enabled.
// Adapter routes are not registered in inference-only mode.
//
// # Graceful Shutdown
//
// Start serves until its context is cancelled, then stops accepting
// connections and waits up to server.shutdown_timeout for in-flight
// requests. The adapter manager is closed by the caller afterwards.
package server
