// SPDX-License-Identifier: MPL-2.0

package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/modserver/modserver/internal/adminssh"
	"github.com/modserver/modserver/internal/builtin"
	"github.com/modserver/modserver/internal/config"
	"github.com/modserver/modserver/internal/console"
	"github.com/modserver/modserver/internal/httpserver"
	"github.com/modserver/modserver/internal/issue"
	"github.com/modserver/modserver/internal/loader"
	"github.com/modserver/modserver/internal/registry"
	"github.com/modserver/modserver/internal/router"
)

type (
	// Options configures Run.
	Options struct {
		Config  *config.Config
		Version string

		In  io.Reader
		Out io.Writer
		// Interactive prints the console prompt.
		Interactive bool

		Logger *log.Logger
		// Catalog overrides the built-in module set.
		Catalog *loader.Catalog
		// Ready, when set, is called once the listeners are up.
		Ready func(*Host)
		Now   func() time.Time
	}

	// Host is the running server graph.
	Host struct {
		Registry *registry.Registry
		Router   *router.Router
		HTTP     *httpserver.Server
		Admin    *adminssh.Server
	}
)

// Run serves until the console quits, ctx is cancelled or a listener fails.
// When console input ends the host keeps serving until ctx is cancelled.
// Startup failures are returned before anything is served.
func Run(ctx context.Context, opts Options) error {
	cfg := opts.Config
	if err := cfg.RequirePort(); err != nil {
		return err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	logger := opts.Logger

	cat := opts.Catalog
	if cat == nil {
		cat = builtin.Catalog(builtin.BuildInfo{Version: opts.Version, StartedAt: opts.Now()})
	}

	h := &Host{Router: router.New(router.WithLogger(logger.WithPrefix("router")))}
	h.Registry = registry.New(cat, h.Router,
		registry.WithLogger(logger.WithPrefix("registry")),
		registry.WithClock(opts.Now),
	)
	h.Router.SetRoot(h.Registry.RootHandler())

	EnableBatch(ctx, h.Registry, cfg.Enable, opts.Out, logger.WithPrefix("serve"))
	h.Registry.ResolveDefault(cfg.Default)

	h.HTTP = httpserver.New(httpserver.Config{
		Port:            cfg.Port,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, h.Router, logger.WithPrefix("http"))
	if err := h.HTTP.Start(ctx); err != nil {
		return listenFailed("http", cfg.Port.String(), err)
	}
	defer stop(logger, h.HTTP)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Admin.Port.IsSet() {
		// Remote sessions get a console without a quit hook.
		remote := console.New(console.Config{
			Registry: h.Registry,
			Catalog:  cat,
			Address:  h.HTTP.Address,
			Logger:   logger.WithPrefix("admin-ssh"),
		})
		admin, err := adminssh.New(adminssh.Config{
			Host:            cfg.Admin.Host,
			Port:            cfg.Admin.Port,
			Token:           cfg.Admin.Token,
			HostKeyPath:     cfg.Admin.HostKeyPath,
			Color:           cfg.Color,
			ShutdownTimeout: cfg.ShutdownTimeout,
		}, remote, logger.WithPrefix("admin-ssh"))
		if err != nil {
			return err
		}
		if err := admin.Start(ctx); err != nil {
			return listenFailed("admin", cfg.Admin.Port.String(), err)
		}
		h.Admin = admin
		defer stop(logger, admin)
	}

	_, _ = fmt.Fprintf(opts.Out, "Listening on http://%s\n", h.HTTP.Address())
	if opts.Ready != nil {
		opts.Ready(h)
	}

	var quit atomic.Bool
	local := console.New(console.Config{
		Registry: h.Registry,
		Catalog:  cat,
		Address:  h.HTTP.Address,
		OnQuit:   func() { quit.Store(true) },
		Logger:   logger.WithPrefix("console"),
	})
	sess := &console.Session{Out: opts.Out, Color: cfg.Color, Prompt: opts.Interactive}

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		err := local.Run(gctx, opts.In, sess)
		switch {
		case quit.Load():
			cancel()
			return nil
		case err == nil:
			logger.Info("console input closed, serving until interrupted")
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		default:
			return err
		}
	})
	g.Go(func() error { return watch(gctx, h.HTTP.Err()) })
	if h.Admin != nil {
		g.Go(func() error { return watch(gctx, h.Admin.Err()) })
	}

	err := g.Wait()
	if err == nil && ctx.Err() != nil {
		logger.Info("interrupted, shutting down")
	}
	return err
}

func watch(ctx context.Context, errs <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err := <-errs:
		return err
	}
}

func stop(logger *log.Logger, s interface{ Stop() error }) {
	if err := s.Stop(); err != nil {
		logger.Warn("shutdown", "err", err)
	}
}

func listenFailed(what, port string, err error) error {
	return issue.NewErrorContext().
		WithOperation("start " + what + " listener").
		WithResource("port " + port).
		WithIssue(issue.ListenFailedId).
		WithSuggestion("Pick a free port or stop the process holding it").
		Wrap(err).
		BuildError()
}
