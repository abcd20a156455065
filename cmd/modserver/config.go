// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modserver/modserver/internal/config"
	"github.com/modserver/modserver/pkg/types"
)

func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		Long: `Inspect the effective configuration.

Settings are merged from defaults, the --config file, MODSERVER_* environment
variables and key=value arguments, later sources winning.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:                "show [key=value ...]",
		Short:              "Show the effective configuration",
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			showConfig(app.Stdout, cfg)
			return nil
		},
	})

	var (
		format string
		reveal bool
	)
	dumpCmd := &cobra.Command{
		Use:                "dump [key=value ...]",
		Short:              "Print the effective configuration as a config file",
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return app.configError(err)
			}
			cfg, err := app.loadConfig(cmd, args)
			if err != nil {
				return err
			}
			out, err := config.Dump(cfg, f, reveal)
			if err != nil {
				return &ExitError{Code: types.ExitFailure, Err: err}
			}
			fmt.Fprint(app.Stdout, out)
			return nil
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", string(config.FormatCUE), "output format: cue or toml")
	dumpCmd.Flags().BoolVar(&reveal, "reveal-token", false, "include the admin token")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	row := func(k, v string) {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render(k), SuccessStyle.Render(v))
	}
	unset := SubtitleStyle.Render("(unset)")

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if cfg.Source != "" {
		row("config file", cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("config file"), SubtitleStyle.Render("(none)"))
	}
	fmt.Fprintln(w)

	if cfg.Port.IsSet() {
		row("port", cfg.Port.String())
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("port"), unset)
	}
	if len(cfg.Enable) > 0 {
		row("enable", config.JoinEnableList(cfg.Enable))
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("enable"), unset)
	}
	if cfg.Default != "" {
		row("default", cfg.Default)
	} else {
		fmt.Fprintf(w, "%s: %s\n", KeyStyle.Render("default"), unset)
	}
	row("color", fmt.Sprint(cfg.Color))
	row("log_level", cfg.LogLevel.String())
	row("shutdown_timeout", cfg.ShutdownTimeout.String())
	if cfg.Admin.Port.IsSet() {
		row("admin.port", cfg.Admin.Port.String())
		row("admin.host", cfg.Admin.Host)
	}
}
