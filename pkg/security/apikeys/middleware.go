package apikeys

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Source defines where to extract API keys from.
type Source struct {
	Type   string // header, query
	Name   string // Header name or query param
	Scheme string // "Bearer", etc. (optional)
}

// DefaultSources accepts X-API-Key or a bearer Authorization header.
var DefaultSources = []Source{
	{Type: "header", Name: "X-API-Key"},
	{Type: "header", Name: "Authorization", Scheme: "Bearer"},
}

// Middleware authenticates requests by API key and stores the binding in
// the request context.
type Middleware struct {
	store   *Store
	sources []Source
	logger  *slog.Logger
}

// NewMiddleware creates the middleware. nil sources selects DefaultSources.
func NewMiddleware(store *Store, sources []Source) *Middleware {
	if len(sources) == 0 {
		sources = DefaultSources
	}
	return &Middleware{
		store:   store,
		sources: sources,
		logger:  store.logger,
	}
}

// Handle wraps an HTTP handler with API key authentication.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := m.extract(r)
		if err != nil {
			m.logger.Warn("missing API key",
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			http.Error(w, "Missing or invalid API key", http.StatusUnauthorized)
			return
		}

		binding, err := m.store.Lookup(key)
		if err != nil {
			m.logger.Warn("rejected API key",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		m.logger.Debug("API key authenticated", "adapter", binding.AdapterName, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(WithBinding(r.Context(), binding)))
	})
}

func (m *Middleware) extract(r *http.Request) (string, error) {
	for _, source := range m.sources {
		switch source.Type {
		case "header":
			value := r.Header.Get(source.Name)
			if value == "" {
				continue
			}
			if source.Scheme == "" {
				return value, nil
			}
			if prefix := source.Scheme + " "; strings.HasPrefix(value, prefix) {
				return strings.TrimPrefix(value, prefix), nil
			}

		case "query":
			if value := r.URL.Query().Get(source.Name); value != "" {
				return value, nil
			}
		}
	}
	return "", fmt.Errorf("no API key found")
}

type contextKey string

// #nosec G101 - This is a context key constant, not a credential
const bindingKey contextKey = "api_key_binding"

// WithBinding returns a context carrying b.
func WithBinding(ctx context.Context, b *Binding) context.Context {
	return context.WithValue(ctx, bindingKey, b)
}

// FromContext returns the binding stored by the middleware.
func FromContext(ctx context.Context) (*Binding, bool) {
	b, ok := ctx.Value(bindingKey).(*Binding)
	return b, ok
}
