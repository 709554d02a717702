package adaptermanager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers"
	"mercator-hq/ganymede/pkg/retrievers/domain"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

const tracerName = "mercator-hq/ganymede/pkg/adaptermanager"

// Dependencies are the collaborators a Manager needs.
type Dependencies struct {
	// Retrievers resolves implementation names to constructors. Required.
	Retrievers *retrievers.Registry

	// DomainAdapters creates the domain adapter for each retriever. Required.
	DomainAdapters *domain.Registry

	// Metrics is optional.
	Metrics *metrics.AdapterMetrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// PreloadResult is the outcome of preloading one adapter.
type PreloadResult struct {
	AdapterName string        `json:"adapter_name"`
	Success     bool          `json:"success"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"-"`

	// Err is the typed failure, nil on success.
	Err error `json:"-"`
}

// HealthStatus is a point-in-time view of the manager.
type HealthStatus struct {
	// Status is "healthy" while the manager serves adapters and "closed"
	// once Close has been called.
	Status               string   `json:"status"`
	AvailableAdapters    int      `json:"available_adapters"`
	CachedAdapters       int      `json:"cached_adapters"`
	InitializingAdapters int      `json:"initializing_adapters"`
	AdapterConfigs       []string `json:"adapter_configs"`
	CachedAdapterNames   []string `json:"cached_adapter_names"`
}

// Manager owns adapter construction, caching, preloading and teardown.
type Manager struct {
	cfg        *config.Config
	store      *ConfigStore
	cache      *Cache
	pool       *workerPool
	retrievers *retrievers.Registry
	domains    *domain.Registry
	metrics    *metrics.AdapterMetrics
	tracer     trace.Tracer
	logger     *slog.Logger

	// lifetime is cancelled by Close and bounds every construction.
	lifetime context.Context
	cancel   context.CancelFunc

	closeOnce sync.Once
	closeErr  error
}

// NewManager creates a manager for the adapters in cfg.Adapters.
func NewManager(cfg *config.Config, deps Dependencies) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("adapter manager requires a configuration")
	}
	if deps.Retrievers == nil {
		return nil, fmt.Errorf("adapter manager requires a retriever registry")
	}
	if deps.DomainAdapters == nil {
		return nil, fmt.Errorf("adapter manager requires a domain adapter registry")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "adaptermanager")

	poolSize := cfg.AdapterManager.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = config.DefaultWorkerPoolSize
	}

	lifetime, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:        cfg,
		store:      LoadConfigStore(cfg.Adapters, logger),
		pool:       newWorkerPool(poolSize),
		retrievers: deps.Retrievers,
		domains:    deps.DomainAdapters,
		metrics:    deps.Metrics,
		tracer:     otel.Tracer(tracerName),
		logger:     logger,
		lifetime:   lifetime,
		cancel:     cancel,
	}
	m.cache = newCache(m.store, m.construct, m.metrics, logger)

	logger.Info("adapter manager initialized",
		"adapters", m.store.Len(),
		"worker_pool_size", poolSize,
	)
	return m, nil
}

// construct runs one adapter construction on the worker pool and waits for
// it. Construction is bounded by the manager lifetime, not by any caller.
func (m *Manager) construct(name string) (retrievers.Retriever, error) {
	adapterCfg, ok := m.store.Get(name)
	if !ok {
		return nil, &ConfigNotFoundError{Name: name}
	}

	type outcome struct {
		r   retrievers.Retriever
		err error
	}
	results := make(chan outcome, 1)
	start := time.Now()

	err := m.pool.Submit(m.lifetime, func() {
		defer func() {
			if p := recover(); p != nil {
				results <- outcome{err: fmt.Errorf("panic during construction: %v", p)}
			}
		}()
		r, err := m.build(m.lifetime, adapterCfg)
		results <- outcome{r: r, err: err}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			err = ErrClosed
		}
		return nil, err
	}

	res := <-results
	duration := time.Since(start)
	m.metrics.RecordConstruction(name, res.err, duration)

	if res.err != nil {
		m.logger.Error("adapter construction failed",
			"adapter", name,
			"implementation", adapterCfg.Implementation,
			"duration", duration,
			"error", res.err,
		)
		return nil, &ConstructionError{Name: name, Cause: res.err}
	}

	m.logger.Info("adapter constructed",
		"adapter", name,
		"implementation", adapterCfg.Implementation,
		"domain_adapter", adapterCfg.Adapter,
		"duration", duration,
	)
	return res.r, nil
}

// build resolves the implementation and domain adapter, instantiates the
// retriever and initializes it.
func (m *Manager) build(ctx context.Context, adapterCfg config.AdapterConfig) (retrievers.Retriever, error) {
	ctx, span := m.tracer.Start(ctx, "adaptermanager.construct", trace.WithAttributes(
		attribute.String("adapter.name", adapterCfg.Name),
		attribute.String("adapter.implementation", adapterCfg.Implementation),
	))
	defer span.End()

	r, err := m.instantiate(ctx, adapterCfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return r, nil
}

func (m *Manager) instantiate(ctx context.Context, adapterCfg config.AdapterConfig) (retrievers.Retriever, error) {
	ctor, err := m.retrievers.Lookup(adapterCfg.Implementation)
	if err != nil {
		return nil, err
	}

	domainAdapter, err := m.domains.Create(domain.KindRetriever, adapterCfg.Datasource, adapterCfg.Adapter, adapterCfg.Config)
	if err != nil {
		return nil, err
	}

	r, err := ctor(retrievers.Settings{
		AdapterName: adapterCfg.Name,
		Datasource:  adapterCfg.Datasource,
		Params:      adapterCfg.Config,
		Config:      m.cfg,
	}, domainAdapter)
	if err != nil {
		return nil, err
	}

	if err := r.Initialize(ctx); err != nil {
		if closeErr := r.Close(); closeErr != nil {
			m.logger.Warn("failed to close adapter after initialization error",
				"adapter", adapterCfg.Name,
				"error", closeErr,
			)
		}
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return r, nil
}

// GetAdapter returns the ready adapter for name, constructing it on first use.
func (m *Manager) GetAdapter(ctx context.Context, name string) (retrievers.Retriever, error) {
	return m.cache.Get(ctx, name)
}

// AvailableAdapters returns every configured adapter name, sorted.
func (m *Manager) AvailableAdapters() []string {
	return m.store.Names()
}

// CachedAdapters returns the names of ready adapters, sorted.
func (m *Manager) CachedAdapters() []string {
	return m.cache.Names()
}

// PreloadAdapter constructs name if it is not cached yet and logs the outcome.
func (m *Manager) PreloadAdapter(ctx context.Context, name string) error {
	if _, err := m.GetAdapter(ctx, name); err != nil {
		m.logger.Error("failed to preload adapter", "adapter", name, "error", err)
		return err
	}
	m.logger.Info("preloaded adapter", "adapter", name)
	return nil
}

// PreloadAll preloads every configured adapter concurrently. Each attempt is
// bounded by timeout independently; a timed out construction continues in
// the background. A non-positive timeout uses the configured default.
func (m *Manager) PreloadAll(ctx context.Context, timeout time.Duration) map[string]PreloadResult {
	names := m.store.Names()
	results := make(map[string]PreloadResult, len(names))
	if len(names) == 0 {
		return results
	}
	if timeout <= 0 {
		timeout = m.cfg.AdapterManager.PreloadTimeout
	}
	if timeout <= 0 {
		timeout = config.DefaultPreloadTimeout
	}

	m.logger.Info("preloading adapters in parallel", "count", len(names), "timeout", timeout)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			res := m.preloadOne(ctx, name, timeout)
			mu.Lock()
			results[name] = res
			mu.Unlock()
		}(name)
	}
	wg.Wait()

	succeeded := 0
	for _, name := range names {
		res := results[name]
		if res.Success {
			succeeded++
			m.logger.Info("adapter preload succeeded", "adapter", name, "duration", res.Duration)
		} else {
			m.logger.Warn("adapter preload failed", "adapter", name, "error", res.Error)
		}
	}
	m.logger.Info("adapter preloading completed",
		"successful", succeeded,
		"total", len(names),
	)
	return results
}

func (m *Manager) preloadOne(ctx context.Context, name string, timeout time.Duration) (res PreloadResult) {
	res.AdapterName = name
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res.Success = false
			res.Err = fmt.Errorf("panic during preload: %v", p)
			res.Error = res.Err.Error()
		}
		res.Duration = time.Since(start)
	}()

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := m.GetAdapter(attemptCtx, name)
	switch {
	case err == nil:
		res.Success = true
		res.Message = "Preloaded successfully"
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		res.Err = &PreloadTimeoutError{Name: name, Timeout: timeout}
		res.Error = fmt.Sprintf("Timeout after %s", timeout)
	default:
		res.Err = err
		res.Error = err.Error()
	}
	return res
}

// RemoveAdapter evicts and closes name. It reports whether an adapter was
// cached; teardown failures are logged, not returned.
func (m *Manager) RemoveAdapter(ctx context.Context, name string) bool {
	removed, err := m.cache.Remove(ctx, name)
	if err != nil {
		m.logger.Warn("error removing adapter", "adapter", name, "error", err)
	}
	if removed {
		m.logger.Info("removed adapter from cache", "adapter", name)
	}
	return removed
}

// ClearCache evicts and closes every cached adapter and returns the teardown
// failures.
func (m *Manager) ClearCache(ctx context.Context) []error {
	errs := m.cache.Clear(ctx)
	for _, err := range errs {
		m.logger.Warn("error clearing adapter", "error", err)
	}
	m.logger.Info("cleared adapter cache", "failures", len(errs))
	return errs
}

// HealthCheck reports the manager's current state.
func (m *Manager) HealthCheck() HealthStatus {
	cached, initializing := m.cache.snapshot()
	status := "healthy"
	if m.cache.isClosed() {
		status = "closed"
	}
	return HealthStatus{
		Status:               status,
		AvailableAdapters:    m.store.Len(),
		CachedAdapters:       len(cached),
		InitializingAdapters: initializing,
		AdapterConfigs:       m.store.Names(),
		CachedAdapterNames:   cached,
	}
}

// Closed reports whether Close has been called.
func (m *Manager) Closed() bool {
	return m.cache.isClosed()
}

// Close tears down every cached adapter, cancels in-flight constructions and
// stops the worker pool. Waiting for running constructions is bounded by
// ctx. Close is idempotent.
func (m *Manager) Close(ctx context.Context) error {
	m.closeOnce.Do(func() {
		m.logger.Info("shutting down adapter manager")

		m.cache.close()
		errs := m.cache.Clear(ctx)
		m.cancel()

		if err := m.pool.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		}
		m.closeErr = errors.Join(errs...)

		m.logger.Info("adapter manager closed", "teardown_failures", len(errs))
	})
	return m.closeErr
}
