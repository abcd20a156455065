// SPDX-License-Identifier: MPL-2.0

// Package registry is the authoritative record of which modules are mounted
// and where.
//
// The Registry pairs every active descriptor with exactly one router mount:
// Enable appends a descriptor only after the module loaded and mounted, and
// Disable unmounts and removes the descriptor in one step. A module name
// appears at most once. Mutations are serialized, so the local console and
// SSH admin sessions may call into the same Registry.
//
// The default root is the path GET / redirects to. Enable sets it when it is
// unset; ResolveDefault picks it once after the startup batch. Disabling the
// module that serves the default root leaves the default pointing at the now
// unmounted path, and a warning is logged.
//
// Unmounting does not wait for requests already dispatched to the module.
package registry
