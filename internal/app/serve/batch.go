// SPDX-License-Identifier: MPL-2.0

package serve

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/modserver/modserver/internal/config"
	"github.com/modserver/modserver/internal/console"
	"github.com/modserver/modserver/internal/registry"
)

// Enabler is the registry surface the startup batch needs.
type Enabler interface {
	Enable(ctx context.Context, name, path string) (registry.Descriptor, registry.Outcome, error)
}

// BatchResult summarizes a startup batch.
type BatchResult struct {
	Enabled []registry.Descriptor
	// Failed maps each failing spec, as typed, to its error.
	Failed map[string]error
}

// EnableBatch enables specs in order. A failing entry is reported on out
// and logged; the batch carries on with the next one.
func EnableBatch(ctx context.Context, reg Enabler, specs []config.MountSpec, out io.Writer, logger *log.Logger) BatchResult {
	res := BatchResult{Failed: make(map[string]error)}
	for _, spec := range specs {
		d, outcome, err := reg.Enable(ctx, string(spec.Name), spec.Path)
		if err != nil {
			res.Failed[spec.String()] = err
			_, _ = fmt.Fprintln(out, console.EnableFailure(string(spec.Name), err))
			logger.Warn("startup enable failed", "module", spec.Name, "path", spec.Path, "err", err)
			continue
		}
		if outcome == registry.AlreadyLoaded {
			_, _ = fmt.Fprintf(out, "%s is already loaded at %s\n", d.Name, d.Path)
			continue
		}
		res.Enabled = append(res.Enabled, d)
		_, _ = fmt.Fprintf(out, "Successfully loaded and enabled %s at path %s!\n", d.Name, d.Path)
	}
	return res
}
