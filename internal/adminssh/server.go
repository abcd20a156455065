// SPDX-License-Identifier: MPL-2.0

package adminssh

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/modserver/modserver/internal/console"
	"github.com/modserver/modserver/internal/core/serverbase"
	"github.com/modserver/modserver/pkg/types"
)

// ErrTokenRequired is returned by New when no admin token is configured.
var ErrTokenRequired = errors.New("admin token is required")

type (
	// Config holds the admin listener settings.
	Config struct {
		Host string
		Port types.ListenPort
		// Token is the password every client must present.
		Token string
		// HostKeyPath is where the host key is read from, or generated when
		// missing. Empty uses an ephemeral key.
		HostKeyPath string
		// Color enables styled output for sessions that request a PTY.
		Color           bool
		ShutdownTimeout time.Duration
	}

	// Server is the SSH admin listener. A Server is single-use.
	Server struct {
		*serverbase.Base

		cfg     Config
		console *console.Console
		logger  *log.Logger

		mu       sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string
	}
)

// New returns a Server running sessions on c.
func New(cfg Config, c *console.Console, logger *log.Logger) (*Server, error) {
	if cfg.Token == "" {
		return nil, ErrTokenRequired
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		Base:    serverbase.NewBase(serverbase.WithLogger(logger)),
		cfg:     cfg,
		console: c,
		logger:  logger,
	}, nil
}

// Start binds the listener and serves sessions in the background.
func (s *Server) Start(ctx context.Context) error {
	if err := s.BeginStart(ctx); err != nil {
		return err
	}

	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port.String())
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.Fail(fmt.Errorf("listen on %s: %w", addr, err))
		return s.LastError()
	}

	opts := []ssh.Option{
		wish.WithAddress(addr),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithPasswordAuth(s.passwordHandler),
		wish.WithMiddleware(
			s.consoleMiddleware(),
			logging.MiddlewareWithLogger(s.logger),
		),
	}
	if s.cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(s.cfg.HostKeyPath))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		_ = ln.Close()
		s.Fail(fmt.Errorf("create ssh server: %w", err))
		return s.LastError()
	}

	s.mu.Lock()
	s.srv = srv
	s.listener = ln
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.Go(func() { s.serve(srv, ln) })
	s.MarkRunning()
	s.logger.Info("admin console listening", "address", s.Address())
	return nil
}

func (s *Server) serve(srv *ssh.Server, ln net.Listener) {
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, ssh.ErrServerClosed) || errors.Is(err, net.ErrClosed) {
		return
	}
	s.Fail(fmt.Errorf("serve: %w", err))
}

// Stop closes the listener and waits for open sessions, at most
// ShutdownTimeout. It is safe to call more than once.
func (s *Server) Stop() error {
	if !s.BeginStop() {
		s.Wait()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv, ln := s.srv, s.listener
	s.mu.Unlock()

	// Serve may not have registered ln with srv yet, in which case Shutdown
	// cannot close it; closing it here always unblocks Accept.
	if ln != nil {
		if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			s.logger.Warn("closing listener", "err", cerr)
		}
	}

	var err error
	if srv != nil {
		if err = srv.Shutdown(ctx); err != nil {
			s.logger.Warn("sessions still open at shutdown", "err", err)
			_ = srv.Close()
			if errors.Is(err, ssh.ErrServerClosed) {
				err = nil
			}
		}
	}

	s.Wait()
	s.MarkStopped()
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

func (s *Server) passwordHandler(ctx ssh.Context, password string) bool {
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Token)) == 1 {
		return true
	}
	s.logger.Warn("rejected admin login", "user", ctx.User(), "remote", ctx.RemoteAddr())
	return false
}

// publicKeyHandler refuses every key; only the token is accepted.
func (s *Server) publicKeyHandler(ssh.Context, ssh.PublicKey) bool {
	return false
}

func (s *Server) consoleMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			id := uuid.NewString()
			logger := s.logger.With("session", id, "user", sess.User())

			ptyReq, winCh, isPty := sess.Pty()
			cs := &console.Session{
				Out:   sess,
				Color: s.cfg.Color && isPty,
			}

			if cmd := sess.Command(); len(cmd) > 0 {
				line := strings.Join(cmd, " ")
				logger.Info("admin command", "line", line)
				s.console.Execute(sess.Context(), line, cs)
				next(sess)
				return
			}

			var in io.Reader = sess
			if isPty {
				t := newTerminal(sess, ptyReq, winCh)
				cs.Out, in = t, t
			}

			logger.Info("admin session opened")
			if err := s.console.Run(sess.Context(), in, cs); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("admin session ended", "err", err)
			}
			logger.Info("admin session closed")
			next(sess)
		}
	}
}
