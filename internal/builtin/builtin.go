// SPDX-License-Identifier: MPL-2.0

// Package builtin wires the built-in module set into a loader catalogue.
package builtin

import (
	"context"
	"time"

	"github.com/modserver/modserver/internal/builtin/docs"
	"github.com/modserver/modserver/internal/builtin/echo"
	"github.com/modserver/modserver/internal/builtin/helloworld"
	"github.com/modserver/modserver/internal/builtin/info"
	"github.com/modserver/modserver/internal/loader"
	"github.com/modserver/modserver/pkg/modules"
)

// BuildInfo is what the info module reports about the running binary.
type BuildInfo struct {
	Version   string
	StartedAt time.Time
}

// Catalog returns a catalogue holding every built-in module.
func Catalog(bi BuildInfo) *loader.Catalog {
	c := loader.NewCatalog()
	c.MustRegister(helloworld.Name, func(context.Context) (modules.Module, error) {
		return helloworld.New(), nil
	})
	c.MustRegister(echo.Name, func(context.Context) (modules.Module, error) {
		return echo.New(), nil
	})
	c.MustRegister(docs.Name, func(context.Context) (modules.Module, error) {
		return docs.New()
	})
	c.MustRegister(info.Name, func(context.Context) (modules.Module, error) {
		return info.New(bi.Version, bi.StartedAt, time.Now), nil
	})
	return c
}
