// ABOUTME: HTTP server that exposes the authenticated ponga API
// ABOUTME: Owns route registration, listener setup and graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/2389/ponga-gateway/internal/auth"
	"github.com/2389/ponga-gateway/internal/config"
)

// shutdownTimeout bounds graceful shutdown once Run's context is canceled.
const shutdownTimeout = 5 * time.Second

// Server serves the ponga HTTP API.
type Server struct {
	config     *config.Config
	authn      auth.Authenticator
	httpServer *http.Server
	logger     *slog.Logger
	version    string

	// now is replaceable in tests
	now func() time.Time
}

// New builds a Server. authn must already be constructed; the server never
// starts without one.
func New(cfg *config.Config, authn auth.Authenticator, logger *slog.Logger, version string) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if authn == nil {
		return nil, errors.New("authenticator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		authn:   authn,
		logger:  logger,
		version: version,
		now:     time.Now,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Bearer-protected endpoints
	requireClaims := auth.RequireClaims(s.authn, s.logger.With("component", "auth"))
	mux.Handle("GET /api/me", requireClaims(http.HandlerFunc(s.handleMe)))
	mux.Handle("POST /api/token/refresh", requireClaims(http.HandlerFunc(s.handleRefresh)))

	return requestLogger(s.logger.With("component", "http"))(mux)
}

// Run listens on the configured address and blocks until ctx is canceled
// or the server fails. Returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run with a caller-supplied listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String(), "alg", s.authn.Algorithm())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since Run's context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}
