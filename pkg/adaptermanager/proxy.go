package adaptermanager

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/ganymede/pkg/retrievers"
)

// Proxy retrieves context by adapter name on behalf of request handlers.
//
// Retrieval failures never reach the caller: they are logged and an empty
// result is returned, so a broken datasource degrades a chat request to
// plain inference instead of failing it.
type Proxy struct {
	manager *Manager
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewProxy creates a proxy over manager.
func NewProxy(manager *Manager) *Proxy {
	return &Proxy{
		manager: manager,
		logger:  manager.logger.With("component", "adaptermanager.proxy"),
		tracer:  manager.tracer,
	}
}

// GetRelevantContext returns documents from the named adapter, or nil on any
// failure.
func (p *Proxy) GetRelevantContext(ctx context.Context, query, adapterName string, opts retrievers.QueryOptions) []retrievers.Document {
	ctx, span := p.tracer.Start(ctx, "adaptermanager.retrieve", trace.WithAttributes(
		attribute.String("adapter.name", adapterName),
	))
	defer span.End()

	docs, err := p.retrieve(ctx, query, adapterName, opts)
	p.manager.metrics.RecordRetrieval(adapterName, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error("error getting context from adapter",
			"adapter", adapterName,
			"error", err,
		)
		return nil
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))
	return docs
}

func (p *Proxy) retrieve(ctx context.Context, query, adapterName string, opts retrievers.QueryOptions) ([]retrievers.Document, error) {
	if adapterName == "" {
		return nil, errors.New("adapter name is required")
	}

	adapter, err := p.manager.GetAdapter(ctx, adapterName)
	if err != nil {
		return nil, err
	}
	return adapter.GetRelevantContext(ctx, query, opts)
}

// Initialize is a no-op; adapters are initialized by the manager on demand.
func (p *Proxy) Initialize(context.Context) error { return nil }

// Close closes the underlying manager.
func (p *Proxy) Close(ctx context.Context) error {
	return p.manager.Close(ctx)
}
