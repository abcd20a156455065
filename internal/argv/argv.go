// SPDX-License-Identifier: MPL-2.0

// Package argv splits positional process arguments into bare flags and
// key=value options.
package argv

import "strings"

// Args is the result of Split.
type Args struct {
	// Flags holds arguments without '=' in order of appearance.
	Flags []string
	// Options maps keys to values; a repeated key keeps its last value.
	Options map[string]string
	// Keys lists option keys in order of first appearance.
	Keys []string
}

// Split classifies each argument. An argument containing '=' is split on the
// first '=' into key and value; anything else is a flag. Leading dashes are
// kept on flags and stripped from keys, so the words "--port=80" and
// "port=80" agree.
func Split(args []string) Args {
	out := Args{Options: make(map[string]string)}
	for _, a := range args {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			out.Flags = append(out.Flags, a)
			continue
		}
		key = strings.TrimLeft(key, "-")
		if _, seen := out.Options[key]; !seen {
			out.Keys = append(out.Keys, key)
		}
		out.Options[key] = value
	}
	return out
}
