package retrievers

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps implementation names to constructors. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register binds name to ctor, replacing any previous binding.
func (r *Registry) Register(name string, ctor Constructor) {
	if name == "" {
		panic("retrievers: Register called with empty name")
	}
	if ctor == nil {
		panic(fmt.Sprintf("retrievers: Register called with nil constructor for %q", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &UnknownImplementationError{Implementation: name}
	}
	return ctor, nil
}

// Kinds returns the registered implementation names, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.ctors))
	for k := range r.ctors {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
