// Package server provides the admin HTTP API of tablistplus.
//
// The API lets operators and integration tests drive the tab list without a
// proxy: it simulates joins, leaves and server switches, hides players and
// returns the grid last rendered for any player.
//
//	GET    /healthz
//	GET    /players
//	POST   /players                 {"name": "...", "server": "..."}
//	DELETE /players/{id}
//	PUT    /players/{id}/server     {"server": "..."}
//	POST   /players/{id}/hide
//	DELETE /players/{id}/hide
//	POST   /players/{id}/refresh
//	GET    /players/{id}/tablist
//	POST   /reload
//
// Errors are returned as {"code": "...", "error": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/tablistplus/pkg/tablist"
)

// Reloader reloads the configuration and rebuilds every tab list.
type Reloader func(ctx context.Context) error

// Server holds the HTTP server state.
type Server struct {
	manager *tablist.Manager
	reload  Reloader
	logger  *log.Logger
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithReloader enables POST /reload.
func WithReloader(r Reloader) Option {
	return func(s *Server) { s.reload = r }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server for the players of m.
func New(m *tablist.Manager, opts ...Option) *Server {
	s := &Server{
		manager: m,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx ends, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("admin api listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
