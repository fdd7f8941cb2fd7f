package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"firestige.xyz/netsniff/internal/log"
	"firestige.xyz/netsniff/internal/metrics"
)

// MetricsHandler returns a router exposing only the Prometheus endpoint at
// path. It backs the standalone metrics listener of the capture and watch
// commands.
func MetricsHandler(path string) http.Handler {
	if path == "" {
		path = "/metrics"
	}
	r := mux.NewRouter()
	r.Handle(path, metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Server runs one HTTP listener. The control API and the standalone metrics
// endpoint share it.
type Server struct {
	name   string
	server *http.Server
	logger log.Logger

	ln   net.Listener
	errc chan error
}

// NewServer creates a server named name (used in logs) serving h on addr.
func NewServer(name, addr string, h http.Handler) *Server {
	return &Server{
		name: name,
		server: &http.Server{
			Addr:         addr,
			Handler:      h,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: log.GetLogger().WithField("server", name).WithField("addr", addr),
	}
}

// Start binds the listener and serves in the background. Bind errors are
// returned; later serve errors are reported on Err.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("%s server listen on %s: %w", s.name, s.server.Addr, err)
	}
	s.ln = ln
	s.errc = make(chan error, 1)

	s.logger.Info("starting server")
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("server error")
			s.errc <- err
		}
		close(s.errc)
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.server.Addr
}

// Err delivers the serve error, if any, and is closed when serving ends.
// It is nil before Start.
func (s *Server) Err() <-chan error {
	return s.errc
}

// Shutdown stops accepting requests and waits for in-flight ones. It is a
// no-op for a server that never started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.ln == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s server shutdown failed: %w", s.name, err)
	}
	s.logger.Info("server stopped")
	return nil
}
