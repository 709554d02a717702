package server

import (
	"net/http"

	"mercator-hq/ganymede/pkg/security/apikeys"
	"mercator-hq/ganymede/pkg/security/auth"
	"mercator-hq/ganymede/pkg/server/middleware"
	"mercator-hq/ganymede/pkg/telemetry/health"
	"mercator-hq/ganymede/pkg/telemetry/tracing"
)

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	chat := apikeys.NewMiddleware(s.deps.APIKeys, nil).Handle(http.HandlerFunc(s.handleChat))
	mux.Handle("POST /v1/chat", chat)

	mux.HandleFunc("GET /health", s.checker.LivenessHandler())
	mux.HandleFunc("GET /ready", s.checker.ReadinessHandler())
	mux.HandleFunc("GET /version", health.VersionHandler(
		s.deps.Version.Version, s.deps.Version.Commit, s.deps.Version.BuildTime,
	))

	if s.deps.Adapters != nil {
		mux.HandleFunc("GET /health/adapters", s.handleAdapterHealth)

		admin := http.NewServeMux()
		admin.HandleFunc("GET /admin/adapters", s.handleListAdapters)
		admin.HandleFunc("POST /admin/adapters/preload", s.handlePreloadAll)
		admin.HandleFunc("POST /admin/adapters/{name}/preload", s.handlePreloadAdapter)
		admin.HandleFunc("DELETE /admin/adapters/{name}", s.handleRemoveAdapter)
		admin.HandleFunc("DELETE /admin/adapters", s.handleClearAdapters)

		var adminHandler http.Handler = admin
		if s.deps.AdminVerifier != nil {
			adminHandler = auth.NewMiddleware(s.deps.AdminVerifier, s.deps.Logger).Handle(admin)
		}
		mux.Handle("/admin/", adminHandler)
	}

	if s.deps.Metrics != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.deps.Metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.Recovery(s.deps.Logger),
		middleware.RequestID,
		tracing.HTTPMiddleware,
		middleware.Logging(s.deps.Logger),
		middleware.Timeout(s.config.Server.WriteTimeout),
	)
}
