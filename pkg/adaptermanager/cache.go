package adaptermanager

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"mercator-hq/ganymede/pkg/retrievers"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// constructFunc builds and initializes the adapter for name.
type constructFunc func(name string) (retrievers.Retriever, error)

// flight is one in-progress construction. done is closed once retriever and
// err are final.
type flight struct {
	done      chan struct{}
	retriever retrievers.Retriever
	err       error
}

// Cache holds ready adapters and deduplicates their construction.
//
// For any name there is at most one construction in flight. A name is never
// both ready and initializing outside the critical section that moves it
// from one state to the other.
type Cache struct {
	store     *ConfigStore
	construct constructFunc
	metrics   *metrics.AdapterMetrics
	logger    *slog.Logger

	mu           sync.RWMutex
	ready        map[string]retrievers.Retriever
	initializing map[string]*flight
	closed       bool
}

func newCache(store *ConfigStore, construct constructFunc, m *metrics.AdapterMetrics, logger *slog.Logger) *Cache {
	return &Cache{
		store:        store,
		construct:    construct,
		metrics:      m,
		logger:       logger,
		ready:        make(map[string]retrievers.Retriever),
		initializing: make(map[string]*flight),
	}
}

// Get returns the ready adapter for name, constructing it if needed.
//
// Concurrent callers for the same cold name share one construction. If ctx
// ends first, Get returns ctx.Err() and the construction carries on. A
// failed construction is not cached; the next Get starts over.
func (c *Cache) Get(ctx context.Context, name string) (retrievers.Retriever, error) {
	c.mu.RLock()
	r, ok := c.ready[name]
	c.mu.RUnlock()
	if ok {
		c.metrics.RecordCacheHit(name)
		return r, nil
	}

	if _, ok := c.store.Get(name); !ok {
		return nil, &ConfigNotFoundError{Name: name}
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if r, ok := c.ready[name]; ok {
		c.mu.Unlock()
		c.metrics.RecordCacheHit(name)
		return r, nil
	}
	fl, inFlight := c.initializing[name]
	if !inFlight {
		fl = &flight{done: make(chan struct{})}
		c.initializing[name] = fl
		go c.build(name, fl)
	}
	c.mu.Unlock()

	c.metrics.RecordCacheMiss(name)
	if inFlight {
		c.logger.Debug("waiting for in-flight adapter construction", "adapter", name)
	}

	select {
	case <-fl.done:
		if fl.err != nil {
			return nil, fl.err
		}
		return fl.retriever, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// build runs one construction and publishes its outcome.
func (c *Cache) build(name string, fl *flight) {
	r, err := c.construct(name)

	var late retrievers.Retriever
	c.mu.Lock()
	delete(c.initializing, name)
	switch {
	case err != nil:
		var cErr *ConstructionError
		if !errors.As(err, &cErr) && !errors.Is(err, ErrClosed) {
			err = &ConstructionError{Name: name, Cause: err}
		}
		fl.err = err
	case c.closed:
		late = r
		fl.err = ErrClosed
	default:
		c.ready[name] = r
		fl.retriever = r
	}
	cached := len(c.ready)
	c.mu.Unlock()
	close(fl.done)

	c.metrics.SetCached(cached)

	if late != nil {
		c.logger.Info("closing adapter constructed after shutdown began", "adapter", name)
		if err := late.Close(); err != nil {
			c.metrics.RecordTeardownFailure(name)
			c.logger.Warn("failed to close late adapter", "adapter", name, "error", err)
		}
	}
}

// Names returns the names of ready adapters, sorted.
func (c *Cache) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.ready))
	for name := range c.ready {
		names = append(names, name)
	}
	c.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Remove evicts name and closes it. If a construction for name is in
// flight, Remove waits for it first so the fresh adapter is not leaked. It
// reports whether an adapter was evicted; a Close failure is returned as a
// *TeardownError after eviction.
func (c *Cache) Remove(ctx context.Context, name string) (bool, error) {
	var r retrievers.Retriever
	for {
		c.mu.Lock()
		fl, inFlight := c.initializing[name]
		if !inFlight {
			var ok bool
			r, ok = c.ready[name]
			if ok {
				delete(c.ready, name)
			}
			cached := len(c.ready)
			c.mu.Unlock()
			if !ok {
				return false, nil
			}
			c.metrics.SetCached(cached)
			break
		}
		c.mu.Unlock()

		select {
		case <-fl.done:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	if err := r.Close(); err != nil {
		c.metrics.RecordTeardownFailure(name)
		return true, &TeardownError{Name: name, Cause: err}
	}
	return true, nil
}

// Clear evicts and closes every ready adapter. Teardown failures are
// collected and do not stop the sweep.
func (c *Cache) Clear(ctx context.Context) []error {
	var errs []error
	for _, name := range c.Names() {
		if _, err := c.Remove(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Len returns the number of ready adapters.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ready)
}

// snapshot returns ready and initializing names under one read lock.
func (c *Cache) snapshot() (ready []string, initializing int) {
	c.mu.RLock()
	ready = make([]string, 0, len(c.ready))
	for name := range c.ready {
		ready = append(ready, name)
	}
	initializing = len(c.initializing)
	c.mu.RUnlock()

	sort.Strings(ready)
	return ready, initializing
}

// close stops new constructions from being started or cached.
func (c *Cache) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Cache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
