// SPDX-License-Identifier: MPL-2.0

package config

import (
	"strings"

	"github.com/modserver/modserver/pkg/types"
)

// MountSpec is one name:path pair of the startup batch.
type MountSpec struct {
	Name types.ModuleName
	Path string
}

// String renders the spec as name:path.
func (s MountSpec) String() string {
	return string(s.Name) + ":" + s.Path
}

// ParseEnableList parses entries of the form name:path. Blank entries are
// skipped; entries without a name or path are returned in bad.
func ParseEnableList(entries []string) (specs []MountSpec, bad []string) {
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, path, ok := strings.Cut(e, ":")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)
		if !ok || path == "" || types.ModuleName(name).Validate() != nil {
			bad = append(bad, e)
			continue
		}
		specs = append(specs, MountSpec{Name: types.ModuleName(name), Path: path})
	}
	return specs, bad
}

// JoinEnableList is the inverse of ParseEnableList.
func JoinEnableList(specs []MountSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ",")
}
