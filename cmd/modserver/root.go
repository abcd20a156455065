// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modserver/modserver/internal/app/serve"
	"github.com/modserver/modserver/internal/config"
	"github.com/modserver/modserver/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "modserver [flags] port=<n> [enable=name:path,...] [default=name]",
		Short: "Serve HTTP modules that can be enabled and disabled at runtime",
		Long: TitleStyle.Render("modserver") + SubtitleStyle.Render(" - an HTTP host with runtime-pluggable modules") + `

modserver listens on one port and mounts built-in modules under URL
prefixes. A console on stdin enables and disables modules while the
server keeps running. GET / redirects to the default module.

` + SubtitleStyle.Render("Options:") + `
  port=<n>                   HTTP port (required, 1-65535)
  enable=<name:path,...>     modules to enable at startup
  default=<name>             module GET / redirects to
  admin-port=<n>             SSH admin console port (needs admin-token)
  admin-token=<secret>       password for the SSH admin console

` + SubtitleStyle.Render("Examples:") + `
  modserver port=8080 enable=helloworld:/hello
  modserver --color port=8080 enable=helloworld:/hello,info:/info default=info
  modserver modules
  modserver config dump --format toml port=8080`,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app, args)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging and error chains")
	flags.BoolVar(&app.color, "color", false, "colored console output")
	flags.StringVar(&app.cfgFile, "config", "", "config file (.cue, .toml, .yaml or .json)")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn or error")
	bindKeyedFlags(flags)

	root.AddCommand(newModulesCommand(app))
	root.AddCommand(newConfigCommand(app))
	return root
}

func runServe(cmd *cobra.Command, app *App, args []string) error {
	ctx := cmd.Context()
	cfg, err := app.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.RequirePort(); err != nil {
		return app.configError(err)
	}

	err = serve.Run(ctx, serve.Options{
		Config:      cfg,
		Version:     Version,
		In:          app.Stdin,
		Out:         app.Stdout,
		Interactive: app.IsTerminal(),
		Logger:      app.logger(cfg),
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, config.ErrConfiguration):
		return app.configError(err)
	default:
		fmt.Fprintln(app.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
}

// getVersionString returns the version shown by --version.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// errorHandler leaves ExitErrors alone; their message was already printed
// where they were raised.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Execute runs the command tree and exits with the resulting code.
func Execute() {
	app := NewApp()
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
