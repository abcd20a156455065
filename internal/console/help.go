// SPDX-License-Identifier: MPL-2.0

package console

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `## Server commands

| Command | Effect |
|---|---|
| ` + "`enable <module> <path>`" + ` | load a module and mount it at path |
| ` + "`disable <module>`" + ` | unmount a module; no-op if it is not loaded |
| ` + "`list`" + ` | show enabled modules in mount order |
| ` + "`status`" + ` | show the default root and listener address |
| ` + "`modules`" + ` | show the modules that can be enabled |

## Console commands

| Command | Effect |
|---|---|
| ` + "`clear`" + ` | clear the screen |
| ` + "`help`" + ` | show this message |
| ` + "`quit`" + ` | stop the server |
`

const helpPlain = `SERVER COMMANDS:

enable <module> <path>
      Loads the module and mounts it at <path>.

disable <module>
      Unmounts the module if it is loaded. Does nothing otherwise.

list
      Lists enabled modules in mount order.

status
      Shows the default root and the listener address.

modules
      Lists the modules that can be enabled.

CONSOLE COMMANDS:

clear     Clear the screen
help      Display this message
quit      Quit server
`

// helpText renders the command reference. With color it is rendered from
// Markdown with glamour, falling back to plain text on error.
func helpText(color bool) string {
	if !color {
		return helpPlain
	}
	out, err := glamour.Render(helpMarkdown, "dark")
	if err != nil {
		return helpPlain
	}
	return out
}
