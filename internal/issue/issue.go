// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

// Id keys an issue page.
type Id int

const (
	PortMissingId Id = iota + 1
	PortInvalidId
	ModuleNotFoundId
	ModuleLoadFailedId
	ConfigLoadFailedId
	ListenFailedId
	AdminTokenMissingId
)

type (
	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// Issue is a long-form help page for one failure class.
	Issue struct {
		id    Id
		title string
		mdMsg MarkdownMsg
	}
)

// Id returns the page key.
func (i *Issue) Id() Id { return i.id }

// Title returns the one-line heading.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Render renders the page for a terminal. style is a glamour standard style
// name ("dark", "light", "notty", ...).
func (i *Issue) Render(style string) (string, error) {
	md := "# " + i.title + "\n" + strings.TrimLeft(string(i.mdMsg), "\n")
	return render(md, style)
}

var render = glamour.Render

var issues = map[Id]*Issue{
	PortMissingId: {
		id:    PortMissingId,
		title: "No listening port configured",
		mdMsg: `
The host server needs a TCP port before it can start.

## Things you can try
- Pass it on the command line:
~~~
$ modserver port=8080
~~~
- Or export it:
~~~
$ MODSERVER_PORT=8080 modserver
~~~
- Or set ` + "`port`" + ` in the file given with ` + "`--config`" + `.`,
	},
	PortInvalidId: {
		id:    PortInvalidId,
		title: "Invalid port",
		mdMsg: `
Ports must be whole numbers between 1 and 65535.`,
	},
	ModuleNotFoundId: {
		id:    ModuleNotFoundId,
		title: "Unknown module",
		mdMsg: `
The requested module is not in the catalogue of this build.

## Things you can try
- List the modules this binary knows about:
~~~
$ modserver modules
~~~
- Check the spelling in ` + "`enable=name:/path`" + `; names are case-sensitive.`,
	},
	ModuleLoadFailedId: {
		id:    ModuleLoadFailedId,
		title: "Module failed to initialize",
		mdMsg: `
The module exists but its initialization returned an error. Nothing was
mounted and the remaining modules were still enabled.

Run with ` + "`--log-level debug`" + ` to see the full cause.`,
	},
	ConfigLoadFailedId: {
		id:    ConfigLoadFailedId,
		title: "Configuration could not be loaded",
		mdMsg: `
The file passed with ` + "`--config`" + ` could not be read or did not match
the schema.

## Things you can try
- Print the effective configuration in CUE form and compare:
~~~
$ modserver config dump --format cue
~~~`,
	},
	ListenFailedId: {
		id:    ListenFailedId,
		title: "Listener could not bind",
		mdMsg: `
Another process may already use the port, or binding it needs privileges.

## Things you can try
- Choose another port with ` + "`port=<n>`" + `.`,
	},
	AdminTokenMissingId: {
		id:    AdminTokenMissingId,
		title: "Admin console needs a token",
		mdMsg: `
` + "`admin-port`" + ` enables the SSH admin console, which only accepts
password logins with the configured token.

~~~
$ modserver port=8080 admin-port=2222 admin-token=s3cret
~~~`,
	},
}

// Get returns the page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every page ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}
