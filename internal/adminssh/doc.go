// SPDX-License-Identifier: MPL-2.0

// Package adminssh exposes the operator console over SSH.
//
// Clients authenticate with the configured admin token as their password;
// public keys are refused. A session without a command runs the interactive
// console until quit or disconnect. A session with a command runs that one
// console line and exits. Quitting a session never stops the host.
package adminssh
