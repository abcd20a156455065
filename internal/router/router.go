// SPDX-License-Identifier: MPL-2.0

package router

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/modserver/modserver/pkg/types"
)

var (
	// ErrInvalidMountPath is returned by Mount for an empty or malformed path.
	ErrInvalidMountPath = errors.New("invalid mount path")
	// ErrNilHandler is returned by Mount when no handler is given.
	ErrNilHandler = errors.New("nil handler")
	// ErrUnknownToken is returned by Unmount for a token with no live mount.
	ErrUnknownToken = errors.New("unknown mount token")
)

type (
	// MountToken identifies one live mount. It is returned by Mount and
	// consumed by Unmount; the zero value never identifies a mount.
	MountToken struct {
		id uuid.UUID
	}

	// Mount describes one entry of the mount table.
	Mount struct {
		Path  types.MountPath
		Token MountToken
	}

	// Router dispatches requests to mounted handlers.
	Router struct {
		mu     sync.Mutex
		table  atomic.Pointer[[]entry]
		root   atomic.Pointer[http.Handler]
		logger *log.Logger
	}

	// Option configures a Router.
	Option func(*Router)

	entry struct {
		Mount
		handler http.Handler
	}
)

// String returns the token id, or "none" for the zero token.
func (t MountToken) String() string {
	if t.IsZero() {
		return "none"
	}
	return t.id.String()
}

// IsZero reports whether t is the zero token.
func (t MountToken) IsZero() bool { return t.id == uuid.Nil }

// WithLogger sets the logger used for mount table changes.
func WithLogger(logger *log.Logger) Option {
	return func(r *Router) { r.logger = logger }
}

// New returns an empty Router.
func New(opts ...Option) *Router {
	r := &Router{logger: log.New(io.Discard)}
	r.table.Store(&[]entry{})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetRoot installs the handler for requests to exactly "/" that no mount
// claims. A nil handler restores the 404 default.
func (r *Router) SetRoot(h http.Handler) {
	if h == nil {
		r.root.Store(nil)
		return
	}
	r.root.Store(&h)
}

// Mount attaches h under path and returns the token that removes it.
// The path is normalized first; the normalized form is what Mounts reports.
func (r *Router) Mount(path string, h http.Handler) (MountToken, error) {
	if h == nil {
		return MountToken{}, ErrNilHandler
	}
	mp, err := types.ParseMountPath(path)
	if err != nil {
		return MountToken{}, fmt.Errorf("%w: %w", ErrInvalidMountPath, err)
	}

	tok := MountToken{id: uuid.New()}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.table.Load()
	next := make([]entry, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, entry{Mount: Mount{Path: mp, Token: tok}, handler: h})
	r.table.Store(&next)

	r.logger.Debug("mounted", "path", mp, "token", tok)
	return tok, nil
}

// Unmount removes the mount identified by tok.
func (r *Router) Unmount(tok MountToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := *r.table.Load()
	for i, e := range cur {
		if e.Token != tok {
			continue
		}
		next := make([]entry, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		r.table.Store(&next)
		r.logger.Debug("unmounted", "path", e.Path, "token", tok)
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownToken, tok)
}

// Mounts returns the mount table in dispatch order.
func (r *Router) Mounts() []Mount {
	cur := *r.table.Load()
	out := make([]Mount, len(cur))
	for i, e := range cur {
		out[i] = e.Mount
	}
	return out
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	for _, e := range *r.table.Load() {
		if e.Path.Matches(req.URL.Path) {
			e.handler.ServeHTTP(w, stripPrefix(req, e.Path))
			return
		}
	}
	if req.URL.Path == "/" {
		if h := r.root.Load(); h != nil {
			(*h).ServeHTTP(w, req)
			return
		}
	}
	http.NotFound(w, req)
}

func stripPrefix(req *http.Request, prefix types.MountPath) *http.Request {
	if prefix.IsRoot() {
		return req
	}
	p := string(prefix)

	r2 := new(http.Request)
	*r2 = *req
	r2.URL = new(url.URL)
	*r2.URL = *req.URL

	r2.URL.Path = ensureSlash(strings.TrimPrefix(req.URL.Path, p))
	if req.URL.RawPath != "" {
		r2.URL.RawPath = ensureSlash(strings.TrimPrefix(req.URL.RawPath, p))
	}
	return r2
}

func ensureSlash(s string) string {
	if s == "" {
		return "/"
	}
	return s
}
