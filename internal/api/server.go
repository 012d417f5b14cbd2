// Package api exposes the public waitlist HTTP surface: signup,
// confirmation, unsubscribe, and the provider webhook.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/waitlist-api/internal/config"
)

// Server wraps the HTTP server around the route handlers.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer creates the API server.
func NewServer(cfg config.ServerConfig, h *Handlers, corsCfg config.CORSConfig) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h, corsCfg),
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
