// SPDX-License-Identifier: MPL-2.0

// Package modules defines the contract between the mount registry and the
// HTTP-serving units it attaches to the router.
//
// A Module is opaque to the registry: it is identified by name and exposes
// one request-handling subtree. The handler sees request paths relative to
// its mount point, so a module mounted at "/hi" receives "/" for "/hi".
package modules

import "net/http"

// Module is an independently loadable unit exposing one handler subtree.
type Module interface {
	// Name is the catalogue key the module was loaded under.
	Name() string
	// Handler serves the module subtree. It must be safe for concurrent use.
	Handler() http.Handler
}

// Func adapts a name and handler into a Module.
type Func struct {
	ModuleName string
	Serve      http.Handler
}

// New returns a Module backed by h.
func New(name string, h http.Handler) Module {
	return &Func{ModuleName: name, Serve: h}
}

// Name implements Module.
func (f *Func) Name() string { return f.ModuleName }

// Handler implements Module.
func (f *Func) Handler() http.Handler { return f.Serve }
