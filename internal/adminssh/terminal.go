// SPDX-License-Identifier: MPL-2.0

package adminssh

import (
	"io"

	"github.com/charmbracelet/ssh"
	"golang.org/x/term"

	"github.com/modserver/modserver/internal/console"
)

// terminal gives PTY sessions a line discipline: echo, editing, Enter sent
// as '\r', and the console prompt. Reads yield one '\n'-terminated line at a
// time so the console can scan it like any other stream.
type terminal struct {
	t   *term.Terminal
	buf []byte
}

func newTerminal(rw io.ReadWriter, req ssh.Pty, winCh <-chan ssh.Window) *terminal {
	t := term.NewTerminal(rw, console.Prompt)
	if req.Window.Width > 0 && req.Window.Height > 0 {
		_ = t.SetSize(req.Window.Width, req.Window.Height)
	}
	go func() {
		for w := range winCh {
			_ = t.SetSize(w.Width, w.Height)
		}
	}()
	return &terminal{t: t}
}

func (r *terminal) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.t.ReadLine()
		if err != nil {
			return 0, err
		}
		r.buf = append([]byte(line), '\n')
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *terminal) Write(p []byte) (int, error) {
	return r.t.Write(p)
}
