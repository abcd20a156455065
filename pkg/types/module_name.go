// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
var ErrInvalidModuleName = errors.New("invalid module name")

type (
	// ModuleName identifies a module in the loader catalogue and in the
	// registry. Names are case-sensitive and may not contain whitespace,
	// ':' (the enable-list separator) or ','.
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName is empty or
	// contains a forbidden character.
	InvalidModuleNameError struct {
		Value ModuleName
	}
)

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// Validate returns nil if the name is non-empty and free of separators.
func (n ModuleName) Validate() error {
	if n == "" || strings.ContainsAny(string(n), " \t\r\n:,") {
		return &InvalidModuleNameError{Value: n}
	}
	return nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	if e.Value == "" {
		return "invalid module name: must be non-empty"
	}
	return fmt.Sprintf("invalid module name %q: must not contain whitespace, ':' or ','", e.Value)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }
