package logging

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	adapterKey   contextKey = "adapter"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithAdapter adds the adapter serving a request to the context.
func WithAdapter(ctx context.Context, adapter string) context.Context {
	return context.WithValue(ctx, adapterKey, adapter)
}

// GetAdapter retrieves the adapter name from the context.
func GetAdapter(ctx context.Context) string {
	if adapter, ok := ctx.Value(adapterKey).(string); ok {
		return adapter
	}
	return ""
}

// contextHandler adds request-scoped context fields to every record.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID := GetRequestID(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	if adapter := GetAdapter(ctx); adapter != "" {
		r.AddAttrs(slog.String("adapter", adapter))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}
