// SPDX-License-Identifier: MPL-2.0

// Package issue turns startup failures into messages an operator can act on.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints. Issue pages are longer Markdown explanations keyed by
// Id and rendered to the terminal with glamour.
package issue
