package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"
)

const (
	DefaultReadTimeout = 10 * time.Second

	// profile and trace stream for their requested duration, 30s by default
	DefaultWriteTimeout = 60 * time.Second
)

// Server exposes net/http/pprof on its own listener and mux. The main server
// never serves http.DefaultServeMux, where pprof registers itself on import.
type Server struct {
	server   *http.Server
	listener net.Listener
	errCh    chan error
}

func New(address string) *Server {
	return &Server{
		server: &http.Server{
			Addr:         address,
			Handler:      Handler(),
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		errCh: make(chan error, 1),
	}
}

// Handler returns a mux with the pprof endpoints under /debug/pprof/
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("profiler listening on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		defer close(s.errCh)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- err
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Errors reports a serve failure after Start returned and is closed once
// serving ends
func (s *Server) Errors() <-chan error {
	return s.errCh
}
