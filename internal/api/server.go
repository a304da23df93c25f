// Package api exposes the HTTP surface of the church admin backend:
// directory CRUD, settings, and the bulk messaging endpoints.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/samedayramps/tiny-church-app/internal/auth"
	"github.com/samedayramps/tiny-church-app/internal/config"
	"github.com/samedayramps/tiny-church-app/internal/directory"
	"github.com/samedayramps/tiny-church-app/internal/service/messaging"
)

// Server wires the handlers into an http.Server.
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
}

// NewServer creates the API server.
func NewServer(
	cfg config.ServerConfig,
	store *directory.Store,
	msg *messaging.Service,
	sessions *auth.Manager,
	serviceToken string,
) *Server {
	handlers := NewHandlers(store, msg, sessions, serviceToken)
	router := SetupRoutes(handlers, sessions, cfg.AllowedOrigins)

	return &Server{
		config:   cfg,
		handler:  router,
		handlers: handlers,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server. Safe to call even if
// ListenAndServe was never reached.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
