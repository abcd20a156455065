// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/modserver/modserver/pkg/types"
)

func TestCatalog_LoadsEveryBuiltin(t *testing.T) {
	t.Parallel()

	c := Catalog(BuildInfo{Version: "test", StartedAt: time.Now()})

	want := []types.ModuleName{"docs", "echo", "helloworld", "info"}
	if got := c.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	for _, name := range want {
		m, err := c.Load(context.Background(), name)
		if err != nil {
			t.Errorf("Load(%s): %v", name, err)
			continue
		}
		if m.Name() != string(name) {
			t.Errorf("Load(%s).Name() = %q", name, m.Name())
		}
		if m.Handler() == nil {
			t.Errorf("Load(%s).Handler() = nil", name)
		}
	}
}
