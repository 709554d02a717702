// Package health provides liveness, readiness and version endpoints.
//
// Components register readiness checks on a Checker; the readiness handler
// runs them concurrently, each bounded by the checker's timeout, and answers
// 503 while any of them fails.
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("adapter_manager", func(ctx context.Context) error {
//	    if manager.Closed() {
//	        return errors.New("adapter manager closed")
//	    }
//	    return nil
//	})
//	mux.HandleFunc("GET /ready", checker.ReadinessHandler())
package health
