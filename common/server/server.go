package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lyzr/roster/common/logger"
)

// Server wraps an HTTP server with graceful shutdown
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	log             *logger.Logger
	name            string
}

// New creates a new server
func New(name string, port int, handler http.Handler, shutdownTimeout time.Duration, log *logger.Logger) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
		log:             log,
		name:            name,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is cancelled, then gives in-flight requests
// shutdownTimeout to complete
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.log.Info(fmt.Sprintf("%s starting", s.name), "addr", s.httpServer.Addr)
		serverErrors <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		s.log.Info("shutdown signal received", "server", s.name)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("graceful shutdown failed", "error", err)
			if err := s.httpServer.Close(); err != nil {
				return fmt.Errorf("could not stop server: %w", err)
			}
		}

		s.log.Info("shutdown complete", "server", s.name)
	}

	return nil
}
