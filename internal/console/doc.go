// SPDX-License-Identifier: MPL-2.0

// Package console implements the line-oriented control console.
//
// A Console reads one command per line, runs it to completion and prints the
// result before reading the next line. The same Console serves the local
// terminal and SSH admin sessions; each call to Run owns its own input and
// output.
package console
