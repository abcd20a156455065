// SPDX-License-Identifier: MPL-2.0

// Package httpserver runs the HTTP listener the module router is served on.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modserver/modserver/internal/core/serverbase"
	"github.com/modserver/modserver/pkg/types"
)

type (
	// Config holds the listener settings.
	Config struct {
		// Host to bind; empty binds every interface.
		Host string
		// Port to bind; 0 picks a free port.
		Port types.ListenPort
		// ShutdownTimeout bounds graceful shutdown (default 5s).
		ShutdownTimeout time.Duration
		// ReadHeaderTimeout guards against slow clients (default 10s).
		ReadHeaderTimeout time.Duration
	}

	// Server serves a handler with a managed lifecycle. A Server is
	// single-use.
	Server struct {
		*serverbase.Base

		cfg     Config
		handler http.Handler
		logger  *log.Logger

		mu       sync.Mutex
		srv      *http.Server
		listener net.Listener
		addr     string
	}
)

// New returns a Server for h. A nil logger discards output.
func New(cfg Config, h http.Handler, logger *log.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		Base:    serverbase.NewBase(serverbase.WithLogger(logger)),
		cfg:     cfg,
		handler: h,
		logger:  logger,
	}
}

// Start binds the listener and serves in the background. It returns once
// the server accepts connections, or with the bind error.
func (s *Server) Start(ctx context.Context) error {
	if err := s.BeginStart(ctx); err != nil {
		return err
	}
	if err := s.cfg.Port.Validate(); err != nil {
		s.Fail(err)
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port.String())
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.Fail(fmt.Errorf("listen on %s: %w", addr, err))
		return s.LastError()
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.WarnLevel}),
		BaseContext:       func(net.Listener) context.Context { return s.Context() },
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = ln
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.Go(func() { s.serve(srv, ln) })
	s.MarkRunning()
	s.logger.Info("listening", "address", s.Address())
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Fail(fmt.Errorf("serve: %w", err))
	}
}

// Stop shuts the server down gracefully, waiting at most ShutdownTimeout for
// in-flight requests. It is safe to call more than once.
func (s *Server) Stop() error {
	if !s.BeginStop() {
		s.Wait()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); err != nil {
			s.logger.Warn("graceful shutdown incomplete", "err", err)
			_ = srv.Close()
		}
	}

	s.Wait()
	s.MarkStopped()
	s.logger.Info("stopped")
	return err
}

// Address returns the bound host:port, or "" before Start succeeded.
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Port returns the bound port, or 0 before Start succeeded.
func (s *Server) Port() types.ListenPort {
	_, p, err := net.SplitHostPort(s.Address())
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(p)
	if err != nil {
		return 0
	}
	return types.ListenPort(n)
}
