// SPDX-License-Identifier: MPL-2.0

// Package helloworld is the smallest possible module.
package helloworld

import (
	"io"
	"net/http"

	"github.com/modserver/modserver/pkg/modules"
)

// Name is the catalogue key.
const Name = "helloworld"

// New returns the module. Every request under its mount answers "Hello World!".
func New() modules.Module {
	return modules.New(Name, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "Hello World!")
	}))
}
