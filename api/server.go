// Package api serves the OpenAI-compatible REST API.
//
// Routes live under /openai/v1 so stock OpenAI SDKs work with a base URL
// pointing at this server. Every route except the health probes requires a
// bearer token; the token resolves to a tenant id that scopes all storage
// access.
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery, logging, and bearer-token auth
//   - response.go: JSON and OpenAI-style error helpers
//   - health.go: liveness and readiness probes
//   - assistants.go, threads.go, runs.go, files.go, vectorstores.go,
//     chat.go: per-resource routers
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = "127.0.0.1:8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds header reads to avoid slow-client stalls.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 60 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Streamed runs and completions must finish within this window.
	WriteTimeout = 5 * time.Minute

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second
)

// RecordStore is the persistence surface the object routers need;
// *crud.Store[T] satisfies it.
type RecordStore[T any] interface {
	Create(ctx context.Context, tenantID uuid.UUID, id string, record T) (T, error)
	Get(ctx context.Context, tenantID uuid.UUID, id string) (T, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]T, error)
	ListByField(ctx context.Context, tenantID uuid.UUID, field, value string) ([]T, error)
	Update(ctx context.Context, tenantID uuid.UUID, id string, record T) (T, error)
	Delete(ctx context.Context, tenantID uuid.UUID, id string) (bool, error)
}

// Server is the HTTP server for the OpenAI-compatible API.
type Server struct {
	mux    *http.ServeMux
	auth   *Authenticator
	logger *slog.Logger
}

// Handlers groups the per-resource routers wired into a Server.
type Handlers struct {
	Health       *HealthHandler
	Assistants   *AssistantHandler
	Threads      *ThreadHandler
	Runs         *RunHandler
	Files        *FileHandler
	VectorStores *VectorStoreHandler
	Chat         *ChatHandler
}

// NewServer creates a server with all routes registered. logger may be nil.
func NewServer(handlers Handlers, auth *Authenticator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	handlers.Health.RegisterRoutes(mux)
	handlers.Assistants.RegisterRoutes(mux)
	handlers.Threads.RegisterRoutes(mux)
	handlers.Runs.RegisterRoutes(mux)
	handlers.Files.RegisterRoutes(mux)
	handlers.VectorStores.RegisterRoutes(mux)
	handlers.Chat.RegisterRoutes(mux)

	return &Server{mux: mux, auth: auth, logger: logger}
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → auth → handler.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		s.auth.Middleware,
	)
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
