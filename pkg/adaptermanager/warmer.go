package adaptermanager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Warmer periodically preloads every configured adapter so that adapters
// removed by an operator, or that failed at startup, are rebuilt before the
// next request needs them.
type Warmer struct {
	manager  *Manager
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewWarmer creates a warmer for manager. schedule uses standard cron syntax
// or descriptors such as "@every 10m".
func NewWarmer(manager *Manager, schedule string, timeout time.Duration) (*Warmer, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}
	return &Warmer{
		manager:  manager,
		schedule: schedule,
		timeout:  timeout,
		cron:     cron.New(),
		logger:   manager.logger.With("component", "adaptermanager.warmer"),
	}, nil
}

// Start schedules warming. The warmer stops when ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	if _, err := w.cron.AddFunc(w.schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule adapter warming: %w", err)
	}

	w.cron.Start()
	w.running = true
	w.logger.Info("adapter warmer started", "schedule", w.schedule, "timeout", w.timeout)

	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}

// RunOnce preloads all adapters and returns the per-adapter results.
func (w *Warmer) RunOnce(ctx context.Context) map[string]PreloadResult {
	w.logger.Debug("starting scheduled adapter warming")
	results := w.manager.PreloadAll(ctx, w.timeout)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if failed > 0 {
		w.logger.Warn("scheduled adapter warming incomplete", "failed", failed, "total", len(results))
	}
	return results
}

// Stop stops the schedule and waits for a running warm cycle to finish.
func (w *Warmer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	<-w.cron.Stop().Done()
	w.running = false
	w.logger.Info("adapter warmer stopped")
}

// IsRunning reports whether the schedule is active.
func (w *Warmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// NextRun returns the next scheduled warm time, or nil if not running.
func (w *Warmer) NextRun() *time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries := w.cron.Entries()
	if !w.running || len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
