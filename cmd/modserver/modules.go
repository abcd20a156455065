// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/modserver/modserver/internal/builtin"
)

func newModulesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the modules enable accepts",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat := builtin.Catalog(builtin.BuildInfo{Version: Version, StartedAt: time.Now()})
			fmt.Fprintln(app.Stdout, TitleStyle.Render("Available modules"))
			for _, n := range cat.Names() {
				fmt.Fprintln(app.Stdout, "  "+KeyStyle.Render(string(n)))
			}
			return nil
		},
	}
}
