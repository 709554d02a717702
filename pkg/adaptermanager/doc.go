// Package adaptermanager lazily constructs, caches, and tears down retriever
// adapters by name.
//
// # Components
//
//   - ConfigStore: the immutable name -> adapter configuration mapping
//   - Cache: ready adapters plus in-flight construction tracking, so that
//     concurrent callers asking for the same cold adapter share a single
//     construction
//   - Manager: runs constructions on a bounded worker pool, preloads adapters
//     in parallel with per-adapter timeouts, and owns shutdown
//   - Proxy: retrieval by adapter name that never fails the caller
//   - Warmer: periodic preloading on a cron schedule
//
// # Concurrency
//
// Cache metadata is guarded by a single RWMutex. Construction always runs
// outside the lock on a worker pool goroutine; callers waiting for an
// in-flight construction block on its completion channel. A caller that gives
// up (context cancelled, preload timeout) does not cancel the construction:
// it keeps running and populates the cache on success. Close cancels the
// manager's lifetime context, and any adapter that finishes constructing
// after Close began is closed instead of cached.
//
// # Usage
//
//	manager, err := adaptermanager.NewManager(cfg, adaptermanager.Dependencies{
//		Retrievers:     builtin.NewRegistry(nil),
//		DomainAdapters: domain.NewDefaultRegistry(),
//	})
//	if err != nil {
//		return err
//	}
//	defer manager.Close(context.Background())
//
//	proxy := adaptermanager.NewProxy(manager)
//	docs := proxy.GetRelevantContext(ctx, "reset password", "support-faq", retrievers.QueryOptions{})
package adaptermanager
