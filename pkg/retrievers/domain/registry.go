// Package domain provides domain adapters, which shape raw datasource records
// into retrieval documents, and the registry used to create them by kind,
// datasource and name.
package domain

import (
	"fmt"
	"sort"
	"sync"

	"mercator-hq/ganymede/pkg/retrievers"
)

// KindRetriever is the adapter kind used by retriever construction.
const KindRetriever = "retriever"

// AnyDatasource matches every datasource when used at registration.
const AnyDatasource = "*"

// Factory creates a domain adapter from adapter parameters.
type Factory func(params map[string]any) (retrievers.DomainAdapter, error)

type key struct {
	kind       string
	datasource string
	name       string
}

// Registry holds domain adapter factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[key]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[key]Factory)}
}

// NewDefaultRegistry creates a registry with the built-in "qa" and "generic"
// adapters registered for every datasource.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindRetriever, AnyDatasource, "qa", NewQAAdapter)
	r.Register(KindRetriever, AnyDatasource, "generic", NewGenericAdapter)
	return r
}

// Register binds a factory. Use AnyDatasource to match all datasources; an
// exact datasource registration takes precedence over the wildcard.
func (r *Registry) Register(kind, datasource, name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key{kind, datasource, name}] = f
}

// Create instantiates the adapter registered for (kind, datasource, name).
func (r *Registry) Create(kind, datasource, name string, params map[string]any) (retrievers.DomainAdapter, error) {
	r.mu.RLock()
	f, ok := r.factories[key{kind, datasource, name}]
	if !ok {
		f, ok = r.factories[key{kind, AnyDatasource, name}]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, &UnknownAdapterError{Kind: kind, Datasource: datasource, Name: name}
	}

	adapter, err := f(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s adapter %q: %w", kind, name, err)
	}
	return adapter, nil
}

// Has reports whether Create would find a factory for (kind, datasource, name).
func (r *Registry) Has(kind, datasource, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.factories[key{kind, datasource, name}]; ok {
		return true
	}
	_, ok := r.factories[key{kind, AnyDatasource, name}]
	return ok
}

// Names returns the adapter names registered for kind, sorted and deduplicated.
func (r *Registry) Names(kind string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for k := range r.factories {
		if k.kind == kind && !seen[k.name] {
			seen[k.name] = true
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names
}

// UnknownAdapterError is returned when no factory matches a Create call.
type UnknownAdapterError struct {
	Kind       string
	Datasource string
	Name       string
}

// Error implements the error interface.
func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("no %s adapter %q registered for datasource %q", e.Kind, e.Name, e.Datasource)
}
