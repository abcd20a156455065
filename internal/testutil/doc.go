// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers shared across packages: Must* wrappers
// that fail or log instead of returning errors, a controllable clock, and
// helpers for servers that need a free port.
package testutil
