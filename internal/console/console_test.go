// SPDX-License-Identifier: MPL-2.0

package console

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modserver/modserver/internal/loader"
	"github.com/modserver/modserver/internal/registry"
	"github.com/modserver/modserver/internal/router"
	"github.com/modserver/modserver/pkg/modules"
	"github.com/modserver/modserver/pkg/types"
)

type fixture struct {
	console *Console
	reg     *registry.Registry
	quits   *atomic.Int32
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	cat := loader.NewCatalog()
	for _, n := range []string{"x", "y", "helloworld"} {
		cat.MustRegister(types.ModuleName(n), func(context.Context) (modules.Module, error) {
			return modules.New(n, http.NotFoundHandler()), nil
		})
	}
	reg := registry.New(cat, router.New())

	var quits atomic.Int32
	c := New(Config{
		Registry: reg,
		Catalog:  cat,
		Address:  func() string { return "127.0.0.1:8080" },
		OnQuit:   func() { quits.Add(1) },
	})
	return fixture{console: c, reg: reg, quits: &quits}
}

func run(t *testing.T, f fixture, script string) string {
	t.Helper()
	var out bytes.Buffer
	err := f.console.Run(context.Background(), strings.NewReader(script), &Session{Out: &out})
	require.NoError(t, err)
	return out.String()
}

func TestConsole_EnableListDisable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := run(t, f, strings.Join([]string{
		"list",
		"enable x /x",
		"enable y y/",
		"list",
		"enable x /other",
		"disable nope",
		"disable x",
		"list",
	}, "\n"))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"There are no currently enabled modules.",
		"Successfully loaded and enabled x at path /x!",
		"Successfully loaded and enabled y at path /y!",
		"Module x currently mounted at /x",
		"Module y currently mounted at /y",
		"x is already loaded at /x",
		"Module nope is not loaded yet. No action taken.",
		"Module x disabled!",
		"Module y currently mounted at /y",
	}, lines)
}

func TestConsole_UsageAndUnknown(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := run(t, f, "enable x\n\n   \ndisable\nfrobnicate now\nenable ghost /g\n")

	assert.Contains(t, out, "Command 'enable' requires at least 2 arguments: enable <modulename> <serverpath>")
	assert.Contains(t, out, "Command 'disable' requires at least 1 argument: disable <modulename>")
	assert.Contains(t, out, "'frobnicate' is not a command recognized. Type 'help' for command list.")
	assert.Contains(t, out, "no module named ghost")
	assert.Empty(t, f.reg.List(), "failed commands must not change the registry")
}

func TestConsole_StatusAndModules(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := run(t, f, "status\nenable helloworld /hi\nstatus\nmodules\n")

	assert.Contains(t, out, "Default root: none")
	assert.Contains(t, out, "Default root: /hi")
	assert.Contains(t, out, "Listening on: 127.0.0.1:8080")
	assert.Contains(t, out, "Enabled modules: 1")
	assert.Contains(t, out, "Available modules:\n  helloworld\n  x\n  y\n")
}

func TestConsole_HelpAndClear(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := run(t, f, "help\nclear\n")
	assert.Contains(t, out, "SERVER COMMANDS:")
	assert.Contains(t, out, "quit      Quit server")
	assert.Contains(t, out, "\x1b[2J")

	var colored bytes.Buffer
	f.console.Execute(context.Background(), "help", &Session{Out: &colored, Color: true})
	assert.Contains(t, colored.String(), "disable")
	assert.NotContains(t, colored.String(), "SERVER COMMANDS:")
}

func TestConsole_Quit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	out := run(t, f, "quit\nenable x /x\n")

	assert.Contains(t, out, "Quitting server!")
	assert.EqualValues(t, 1, f.quits.Load())
	assert.Empty(t, f.reg.List(), "lines after quit must not run")
}

func TestConsole_Prompt(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var out bytes.Buffer
	err := f.console.Run(context.Background(), strings.NewReader("list\n"), &Session{Out: &out, Prompt: true})
	require.NoError(t, err)
	assert.Equal(t, "> There are no currently enabled modules.\n> ", out.String())
}

func TestConsole_ContextCancel(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- f.console.Run(ctx, pr, &Session{Out: io.Discard})
	}()

	_, err := io.WriteString(pw, "enable x /x\n")
	require.NoError(t, err)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.Zero(t, f.quits.Load())
}

func TestConsole_ColorOutputStyled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	var out bytes.Buffer
	f.console.Execute(context.Background(), "enable x /x", &Session{Out: &out, Color: true})
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "Successfully loaded and enabled x")
}
