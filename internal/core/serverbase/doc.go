// SPDX-License-Identifier: MPL-2.0

// Package serverbase holds the lifecycle state machine shared by the HTTP host
// server and the SSH admin console.
//
// A Base tracks its state atomically, serializes failure bookkeeping behind a
// mutex, counts the goroutines it launches and owns the cancellation context
// those goroutines observe. Concrete servers embed *Base and drive it from
// their Start and Stop methods.
package serverbase
