// SPDX-License-Identifier: MPL-2.0

// Package docs serves the embedded operator guide as HTML.
package docs

import (
	"bytes"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/modserver/modserver/pkg/modules"
)

// Name is the catalogue key.
const Name = "docs"

//go:embed content/guide.md
var guide []byte

const page = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>modserver</title></head>
<body>
%s</body></html>
`

// Markdown returns the raw guide.
func Markdown() []byte {
	return bytes.Clone(guide)
}

// New renders the guide once and returns a module serving it at its mount
// root. Other paths under the mount are 404.
func New() (modules.Module, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert(guide, &body); err != nil {
		return nil, fmt.Errorf("rendering guide: %w", err)
	}
	html := fmt.Appendf(nil, page, body.String())

	return modules.New(Name, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(html)
	})), nil
}
