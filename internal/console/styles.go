// SPDX-License-Identifier: MPL-2.0

package console

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
	colorMuted     = lipgloss.Color("#6B7280")
)

// palette holds the styles for one output stream.
type palette struct {
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	path    lipgloss.Style
	muted   lipgloss.Style
}

// newPalette binds styles to w. Without color every style renders plain text.
func newPalette(w io.Writer, color bool) palette {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		success: r.NewStyle().Foreground(colorSuccess),
		failure: r.NewStyle().Bold(true).Foreground(colorError),
		warning: r.NewStyle().Foreground(colorWarning),
		path:    r.NewStyle().Foreground(colorHighlight),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}
