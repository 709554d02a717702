package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// Middleware rejects requests without a valid bearer token.
type Middleware struct {
	verifier *Verifier
	logger   *slog.Logger
}

// NewMiddleware creates admin auth middleware.
func NewMiddleware(verifier *Verifier, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{
		verifier: verifier,
		logger:   logger.With("component", "admin_auth"),
	}
}

// Handle wraps next with token verification.
func (m *Middleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := m.verifier.VerifyToken(token)
		if err != nil {
			m.logger.Warn("admin token rejected",
				"error", err,
				"remote_addr", r.RemoteAddr,
				"path", r.URL.Path,
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		m.logger.Debug("admin request authenticated", "subject", claims.Subject, "path", r.URL.Path)
		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const claimsKey contextKey = "admin_claims"

// ClaimsFromContext returns the claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}
