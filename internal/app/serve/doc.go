// SPDX-License-Identifier: MPL-2.0

// Package serve runs the host: it enables the startup batch, resolves the
// default root, starts the HTTP listener (and the SSH admin console when
// configured) and drives the local console until quit, end of input or
// cancellation.
package serve
