// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/modserver/modserver/internal/argv"
	"github.com/modserver/modserver/internal/config"
	"github.com/modserver/modserver/internal/issue"
	"github.com/modserver/modserver/pkg/types"
)

type (
	// App holds the process streams and the persistent flag values every
	// command reads.
	App struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// IsTerminal reports whether Stdin is interactive.
		IsTerminal func() bool

		verbose  bool
		color    bool
		cfgFile  string
		logLevel string
	}
)

// NewApp returns an App on the process streams.
func NewApp() *App {
	return &App{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// loadConfig builds the configuration from flags, file, environment and
// positional key=value arguments. Failures come back as an ExitError with
// the usage exit code, after the issue page has been printed.
func (a *App) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	split := argv.Split(append(keyedFlagArgs(cmd.Flags()), args...))
	cfg, err := config.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: a.cfgFile,
		Options:        split.Options,
		OptionKeys:     split.Keys,
		Flags:          split.Flags,
		Color:          a.color,
		LogLevel:       a.logLevel,
		Verbose:        a.verbose,
	})
	if err != nil {
		return nil, a.configError(err)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintln(a.Stderr, WarningStyle.Render("Warning: ")+w)
	}
	return cfg, nil
}

// keyedOptions are the key=value options that are also accepted in
// --key=value form. Their flags are hidden; help documents the key=value form.
var keyedOptions = []string{"port", "enable", "default", "admin-port", "admin-token"}

func bindKeyedFlags(fs *pflag.FlagSet) {
	for _, k := range keyedOptions {
		fs.String(k, "", "same as "+k+"=<value>")
		_ = fs.MarkHidden(k)
	}
}

// keyedFlagArgs turns set keyed flags back into key=value words. They come
// first so positional key=value arguments override them.
func keyedFlagArgs(fs *pflag.FlagSet) []string {
	var out []string
	for _, k := range keyedOptions {
		if f := fs.Lookup(k); f != nil && f.Changed {
			out = append(out, k+"="+f.Value.String())
		}
	}
	return out
}

// configError prints err and its issue page and converts it to an
// ExitError with the usage code.
func (a *App) configError(err error) error {
	fmt.Fprintln(a.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		if page := issue.Get(ae.Issue); page != nil {
			style := "notty"
			if a.color {
				style = "dark"
			}
			if rendered, rerr := page.Render(style); rerr == nil {
				fmt.Fprint(a.Stderr, rendered)
			}
		}
	}
	return &ExitError{Code: types.ExitUsage, Err: err}
}

func (a *App) logger(cfg *config.Config) *log.Logger {
	return log.NewWithOptions(a.Stderr, log.Options{
		Level:           cfg.LogLevel,
		ReportTimestamp: true,
	})
}

// formatErrorForDisplay uses ActionableError formatting when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
