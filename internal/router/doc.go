// SPDX-License-Identifier: MPL-2.0

// Package router is the live request router modules are mounted on.
//
// Mounts are matched in the order they were added: a request matches a mount
// when its path equals the mount path or continues it with '/'. The mount path
// is stripped before the module handler runs. A request for exactly "/" that
// no mount claims goes to the root handler; everything else is a 404.
//
// Dispatch reads an immutable snapshot of the mount table, so Mount and
// Unmount never block requests. A request that was already handed to a
// module keeps running against that module after it is unmounted; the
// router does not drain in-flight requests.
package router
