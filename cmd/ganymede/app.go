package main

import (
	"context"
	"log/slog"
	"time"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers/builtin"
	"mercator-hq/ganymede/pkg/retrievers/domain"
	"mercator-hq/ganymede/pkg/retrievers/vector"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// newManager builds the adapter manager with the built-in retrievers and
// domain adapters. collector may be nil.
func newManager(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) (*adaptermanager.Manager, error) {
	return adaptermanager.NewManager(cfg, adaptermanager.Dependencies{
		Retrievers:     builtin.NewRegistry(vector.OpenAIEmbedderFactory),
		DomainAdapters: domain.NewDefaultRegistry(),
		Metrics:        collector.Adapters(),
		Logger:         logger,
	})
}

// closeManager closes m within the configured manager shutdown timeout.
func closeManager(m *adaptermanager.Manager, timeout time.Duration, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := m.Close(ctx); err != nil {
		logger.Warn("adapter manager closed with errors", "error", err)
	}
}

// preloadSummary counts successful results.
func preloadSummary(results map[string]adaptermanager.PreloadResult) (ok, total int) {
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	return ok, len(results)
}
