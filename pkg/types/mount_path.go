// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidMountPath is the sentinel error wrapped by InvalidMountPathError.
var ErrInvalidMountPath = errors.New("invalid mount path")

type (
	// MountPath is the URL path prefix a module subtree is reachable under.
	// Normalized paths always start with '/', never end with '/' (except the
	// root itself) and contain no '.' or '..' segments.
	MountPath string

	// InvalidMountPathError is returned when a mount path is empty or carries
	// a query or fragment.
	InvalidMountPathError struct {
		Value string
	}
)

// ParseMountPath normalizes a user supplied path. "hi", "/hi" and "/hi/"
// all become "/hi".
func ParseMountPath(s string) (MountPath, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.ContainsAny(trimmed, "?# \t") {
		return "", &InvalidMountPathError{Value: s}
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	return MountPath(path.Clean(trimmed)), nil
}

// String returns the string representation of the MountPath.
func (p MountPath) String() string { return string(p) }

// IsRoot reports whether the path is "/".
func (p MountPath) IsRoot() bool { return p == "/" }

// Matches reports whether the request path falls under this mount:
// it is the mount path itself or a descendant of it.
func (p MountPath) Matches(requestPath string) bool {
	if p.IsRoot() {
		return true
	}
	mp := string(p)
	if !strings.HasPrefix(requestPath, mp) {
		return false
	}
	rest := requestPath[len(mp):]
	return rest == "" || rest[0] == '/'
}

// Validate returns nil if the path is already in normalized form.
func (p MountPath) Validate() error {
	normalized, err := ParseMountPath(string(p))
	if err != nil {
		return err
	}
	if normalized != p {
		return &InvalidMountPathError{Value: string(p)}
	}
	return nil
}

// Error implements the error interface for InvalidMountPathError.
func (e *InvalidMountPathError) Error() string {
	return fmt.Sprintf("invalid mount path %q: must be a non-empty URL path without query or fragment", e.Value)
}

// Unwrap returns ErrInvalidMountPath for errors.Is() compatibility.
func (e *InvalidMountPathError) Unwrap() error { return ErrInvalidMountPath }
