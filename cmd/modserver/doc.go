// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modserver command tree.
package cmd
