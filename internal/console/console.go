// SPDX-License-Identifier: MPL-2.0

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/modserver/modserver/internal/loader"
	"github.com/modserver/modserver/internal/registry"
	"github.com/modserver/modserver/pkg/types"
)

// Prompt is printed before each line when prompting is enabled.
const Prompt = "> "

type (
	// Registry is the registry surface the console drives.
	Registry interface {
		Enable(ctx context.Context, name, path string) (registry.Descriptor, registry.Outcome, error)
		Disable(name string) (registry.Descriptor, registry.Outcome, error)
		List() []registry.Descriptor
		DefaultRoot() (types.MountPath, bool)
	}

	// Catalog lists the module names enable accepts.
	Catalog interface {
		Names() []types.ModuleName
	}

	// Config wires a Console.
	Config struct {
		Registry Registry
		Catalog  Catalog
		// Address reports the HTTP listener address for status.
		Address func() string
		// OnQuit is called when quit is entered, before Run returns.
		OnQuit func()
		Logger *log.Logger
	}

	// Console dispatches command lines onto a Registry.
	Console struct {
		cfg Config
	}

	// Session holds per-stream settings for Run and Execute.
	Session struct {
		Out    io.Writer
		Color  bool
		Prompt bool

		pal *palette
	}
)

// New returns a Console.
func New(cfg Config) *Console {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Console{cfg: cfg}
}

// Run reads commands from in until quit, end of input or ctx is done.
// It returns nil for quit and end of input, and the context error otherwise.
func (c *Console) Run(ctx context.Context, in io.Reader, s *Session) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if s.Prompt {
			_, _ = io.WriteString(s.Out, Prompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			if err != nil {
				c.cfg.Logger.Warn("console input failed", "err", err)
			}
			return nil
		case line := <-lines:
			if c.Execute(ctx, line, s) {
				return nil
			}
		}
	}
}

// Execute runs one command line and reports whether it was quit.
func (c *Console) Execute(ctx context.Context, line string, s *Session) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	verb, args := fields[0], fields[1:]
	p := s.palette()

	switch verb {
	case "quit":
		s.println(p.muted.Render("Quitting server!"))
		if c.cfg.OnQuit != nil {
			c.cfg.OnQuit()
		}
		return true
	case "clear":
		termenv.NewOutput(s.Out).ClearScreen()
	case "help":
		s.println(helpText(s.Color))
	case "enable":
		if len(args) < 2 {
			s.println(p.warning.Render("Command 'enable' requires at least 2 arguments: enable <modulename> <serverpath>"))
			return false
		}
		c.enable(ctx, s, args[0], args[1])
	case "disable":
		if len(args) < 1 {
			s.println(p.warning.Render("Command 'disable' requires at least 1 argument: disable <modulename>"))
			return false
		}
		c.disable(s, args[0])
	case "list":
		c.list(s)
	case "status":
		c.status(s)
	case "modules":
		c.modules(s)
	default:
		s.println(p.failure.Render(fmt.Sprintf("'%s' is not a command recognized. Type 'help' for command list.", verb)))
	}
	return false
}

func (c *Console) enable(ctx context.Context, s *Session, name, path string) {
	p := s.palette()
	d, out, err := c.cfg.Registry.Enable(ctx, name, path)
	switch {
	case err != nil:
		s.println(p.failure.Render(EnableFailure(name, err)))
	case out == registry.AlreadyLoaded:
		s.println(p.warning.Render(fmt.Sprintf("%s is already loaded at %s", d.Name, d.Path)))
	default:
		s.println(p.success.Render(fmt.Sprintf("Successfully loaded and enabled %s at path %s!", d.Name, p.path.Render(string(d.Path)))))
	}
}

func (c *Console) disable(s *Session, name string) {
	p := s.palette()
	d, out, err := c.cfg.Registry.Disable(name)
	switch {
	case err != nil:
		s.println(p.failure.Render(fmt.Sprintf("Failed to disable %s: %v", name, err)))
	case out == registry.NotLoaded:
		s.println(p.warning.Render(fmt.Sprintf("Module %s is not loaded yet. No action taken.", name)))
	default:
		s.println(p.success.Render(fmt.Sprintf("Module %s disabled!", d.Name)))
	}
}

func (c *Console) list(s *Session) {
	p := s.palette()
	active := c.cfg.Registry.List()
	if len(active) == 0 {
		s.println("There are no currently enabled modules.")
		return
	}
	for _, d := range active {
		s.println(fmt.Sprintf("Module %s currently mounted at %s", d.Name, p.path.Render(string(d.Path))))
	}
}

func (c *Console) status(s *Session) {
	p := s.palette()
	root := "none"
	if r, ok := c.cfg.Registry.DefaultRoot(); ok {
		root = p.path.Render(string(r))
	}
	addr := "unknown"
	if c.cfg.Address != nil {
		addr = c.cfg.Address()
	}
	s.println(fmt.Sprintf("Default root: %s", root))
	s.println(fmt.Sprintf("Listening on: %s", addr))
	s.println(fmt.Sprintf("Enabled modules: %d", len(c.cfg.Registry.List())))
}

func (c *Console) modules(s *Session) {
	if c.cfg.Catalog == nil {
		s.println("No module catalogue available.")
		return
	}
	s.println("Available modules:")
	for _, n := range c.cfg.Catalog.Names() {
		s.println("  " + string(n))
	}
}

// EnableFailure renders an Enable error the way the console and the startup
// batch report it.
func EnableFailure(name string, err error) string {
	switch {
	case errors.Is(err, loader.ErrModuleNotFound):
		return fmt.Sprintf("Module loading error: no module named %s. Type 'modules' for the list.", name)
	case errors.Is(err, loader.ErrLoadFailed):
		return fmt.Sprintf("Module loading error: %v", err)
	case errors.Is(err, registry.ErrInvalidArgument):
		return fmt.Sprintf("Cannot enable %s: %v", name, err)
	default:
		return fmt.Sprintf("Failed to enable %s: %v", name, err)
	}
}

func (s *Session) palette() palette {
	if s.pal == nil {
		p := newPalette(s.Out, s.Color)
		s.pal = &p
	}
	return *s.pal
}

func (s *Session) println(msg string) {
	_, _ = fmt.Fprintln(s.Out, msg)
}
