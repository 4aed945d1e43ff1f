package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"energy-trading-platform/internal/config"
	"go.uber.org/zap"
)

// Server runs the REST API over HTTP.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a Server listening on the configured port.
func NewServer(cfg config.Server, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger.Named("api-server"),
	}
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start runs the HTTP server in a new goroutine. A listener failure is sent
// on the returned channel.
func (s *Server) Start() <-chan error {
	errs := make(chan error, 1)
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
			errs <- err
		}
		close(errs)
	}()
	return errs
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
