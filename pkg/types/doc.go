// SPDX-License-Identifier: MPL-2.0

// Package types defines validated value types shared by the registry, the
// router, configuration and the CLI: module names, mount paths, listen ports
// and process exit codes.
//
// This package is a leaf dependency: it imports only the standard library.
package types
