package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/inference"
	"mercator-hq/ganymede/pkg/security/apikeys"
	"mercator-hq/ganymede/pkg/security/auth"
	"mercator-hq/ganymede/pkg/telemetry/health"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// ChatService answers chat requests.
type ChatService interface {
	Chat(ctx context.Context, req inference.ChatRequest) (*inference.ChatResponse, error)
}

// AdapterManager is the adapter administration surface the server exposes.
type AdapterManager interface {
	AvailableAdapters() []string
	CachedAdapters() []string
	PreloadAdapter(ctx context.Context, name string) error
	PreloadAll(ctx context.Context, timeout time.Duration) map[string]adaptermanager.PreloadResult
	RemoveAdapter(ctx context.Context, name string) bool
	ClearCache(ctx context.Context) []error
	HealthCheck() adaptermanager.HealthStatus
	Closed() bool
}

// WarmerStatus reports the scheduled adapter warmer's state.
type WarmerStatus interface {
	IsRunning() bool
	NextRun() *time.Time
}

// Version describes the running build.
type Version struct {
	Version   string
	Commit    string
	BuildTime string
}

// Dependencies are the collaborators the server routes to.
type Dependencies struct {
	// Chat serves /v1/chat. Required.
	Chat ChatService

	// Adapters serves the adapter health and admin routes. Nil in
	// inference-only mode.
	Adapters AdapterManager

	// APIKeys authenticates chat requests. Required.
	APIKeys *apikeys.Store

	// Warmer is reported under /health/adapters when a warm schedule is
	// configured.
	Warmer WarmerStatus

	// AdminVerifier guards /admin routes. Nil leaves them open.
	AdminVerifier *auth.Verifier

	// Metrics is optional.
	Metrics *metrics.Collector

	Version Version

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the Ganymede HTTP server.
type Server struct {
	config       *config.Config
	deps         Dependencies
	logger       *slog.Logger
	checker      *health.Checker
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server. It does not start listening.
func NewServer(cfg *config.Config, deps Dependencies) (*Server, error) {
	if deps.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if deps.APIKeys == nil {
		return nil, errors.New("api key store is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		deps:    deps,
		logger:  deps.Logger.With("component", "server"),
		checker: health.New(2 * time.Second),
	}
	s.registerChecks()
	return s, nil
}

func (s *Server) registerChecks() {
	s.checker.RegisterCheck("api_keys", func(context.Context) error {
		if s.deps.APIKeys.Len() == 0 {
			return errors.New("no api keys configured")
		}
		return nil
	})

	if s.deps.Adapters != nil {
		s.checker.RegisterCheck("adapter_manager", func(context.Context) error {
			if s.deps.Adapters.Closed() {
				return errors.New("adapter manager closed")
			}
			if len(s.deps.Adapters.AvailableAdapters()) == 0 {
				return errors.New("no adapters configured")
			}
			return nil
		})
	}
}

// Start listens on the configured address and serves until ctx is done or
// the listener fails, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"address", ln.Addr().String(),
			"readiness_checks", s.checker.ListChecks(),
		)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server within the configured shutdown
// timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running, srv := s.isRunning, s.httpServer
		s.mu.RUnlock()
		if !running || srv == nil {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}
