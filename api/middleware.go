package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const tenantKey contextKey = "tenant"

// tenantFromContext returns the tenant id stored by the auth middleware.
func tenantFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantKey).(uuid.UUID)
	return id, ok
}

// Authenticator resolves bearer tokens to tenant ids. Requests outside the
// protected prefix pass through unauthenticated.
type Authenticator struct {
	// tokens maps a bearer token to the owning tenant id.
	tokens map[string]uuid.UUID
	// prefix guards which paths require a token.
	prefix string
}

// NewAuthenticator creates an Authenticator over a token → tenant-id map.
// Malformed tenant ids are skipped.
func NewAuthenticator(tokens map[string]string) *Authenticator {
	resolved := make(map[string]uuid.UUID, len(tokens))
	for token, tenant := range tokens {
		id, err := uuid.Parse(tenant)
		if err != nil {
			slog.Warn("skipping auth token with invalid tenant id", "error", err)
			continue
		}
		resolved[token] = id
	}
	return &Authenticator{tokens: resolved, prefix: "/openai/"}
}

// Middleware enforces bearer-token auth on the protected prefix and stores
// the resolved tenant id in the request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, a.prefix) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_request_error", "missing bearer token")
			return
		}
		tenantID, ok := a.tokens[token]
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid_request_error", "invalid bearer token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tenantKey, tenantID)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const scheme = "Bearer "
	if len(auth) <= len(scheme) || !strings.EqualFold(auth[:len(scheme)], scheme) {
		return "", false
	}
	return strings.TrimSpace(auth[len(scheme):]), true
}

// loggingMiddleware logs all HTTP requests with method, path, and duration.
func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start))
		})
	}
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// chain applies middleware in order: first middleware wraps outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
