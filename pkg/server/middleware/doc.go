// Package middleware provides the HTTP middleware chain shared by every
// Ganymede route.
//
// Requests pass through the following middleware (outermost first):
//  1. Recovery: turns handler panics into a 500 JSON error
//  2. RequestID: accepts or generates X-Request-ID and stores it in the context
//  3. Logging: logs method, path, status and latency
//  4. Timeout: bounds the request context
//
// Chain composes them:
//
//	handler = middleware.Chain(mux,
//	    middleware.Recovery(logger),
//	    middleware.RequestID,
//	    middleware.Logging(logger),
//	    middleware.Timeout(cfg.Server.WriteTimeout),
//	)
package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws to h so that the first middleware is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
