package adaptermanager

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers"
	"mercator-hq/ganymede/pkg/retrievers/domain"
)

// fakeBehavior controls how a fake adapter behaves.
type fakeBehavior struct {
	// gate blocks Initialize until closed.
	gate chan struct{}
	// ignoreCtx makes a gated Initialize ignore cancellation.
	ignoreCtx   bool
	initErr     error
	closeErr    error
	retrieveErr error
	panics      bool
	docs        []retrievers.Document
}

type fakeRetriever struct {
	name     string
	behavior *fakeBehavior
	closed   atomic.Bool
}

func (f *fakeRetriever) Initialize(ctx context.Context) error {
	if f.behavior.gate != nil {
		if f.behavior.ignoreCtx {
			<-f.behavior.gate
		} else {
			select {
			case <-f.behavior.gate:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return f.behavior.initErr
}

func (f *fakeRetriever) GetRelevantContext(context.Context, string, retrievers.QueryOptions) ([]retrievers.Document, error) {
	if f.behavior.retrieveErr != nil {
		return nil, f.behavior.retrieveErr
	}
	return f.behavior.docs, nil
}

func (f *fakeRetriever) Close() error {
	f.closed.Store(true)
	return f.behavior.closeErr
}

// fakeFactory builds fake retrievers and counts constructions per name.
type fakeFactory struct {
	behaviors map[string]*fakeBehavior

	mu            sync.Mutex
	constructions map[string]int
	instances     map[string][]*fakeRetriever
}

func (f *fakeFactory) construct(settings retrievers.Settings, _ retrievers.DomainAdapter) (retrievers.Retriever, error) {
	b := f.behaviors[settings.AdapterName]
	if b.panics {
		panic("constructor exploded")
	}

	r := &fakeRetriever{name: settings.AdapterName, behavior: b}
	f.mu.Lock()
	f.constructions[settings.AdapterName]++
	f.instances[settings.AdapterName] = append(f.instances[settings.AdapterName], r)
	f.mu.Unlock()
	return r, nil
}

func (f *fakeFactory) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.constructions[name]
}

func (f *fakeFactory) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.constructions {
		n += c
	}
	return n
}

func (f *fakeFactory) instance(name string, i int) *fakeRetriever {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.instances[name][i]
}

func newTestManager(t *testing.T, behaviors map[string]*fakeBehavior) (*Manager, *fakeFactory) {
	t.Helper()

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	for name := range behaviors {
		cfg.Adapters = append(cfg.Adapters, config.AdapterConfig{
			Name:           name,
			Implementation: "fake",
			Datasource:     "memory",
			Adapter:        "generic",
		})
	}

	factory := &fakeFactory{
		behaviors:     behaviors,
		constructions: make(map[string]int),
		instances:     make(map[string][]*fakeRetriever),
	}
	reg := retrievers.NewRegistry()
	reg.Register("fake", factory.construct)

	m, err := NewManager(cfg, Dependencies{
		Retrievers:     reg,
		DomainAdapters: domain.NewDefaultRegistry(),
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		m.Close(ctx)
	})
	return m, factory
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
