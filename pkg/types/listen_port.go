// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidListenPort is the sentinel error wrapped by InvalidListenPortError.
var ErrInvalidListenPort = errors.New("invalid listen port")

type (
	// ListenPort represents a TCP port for server listening.
	// The zero value (0) means "not configured"; callers decide whether that
	// is acceptable (the HTTP listener requires a port, tests bind port 0).
	// Non-zero values must be in the range 1–65535.
	ListenPort int

	// InvalidListenPortError is returned when a ListenPort value is
	// outside the valid range, or when a textual port cannot be parsed.
	InvalidListenPortError struct {
		Value ListenPort
		Input string
	}
)

// ParseListenPort parses a decimal port number such as the value of a
// `port=8080` argument. Surrounding whitespace is ignored.
func ParseListenPort(s string) (ListenPort, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &InvalidListenPortError{Input: s}
	}
	p := ListenPort(n)
	if err := p.Validate(); err != nil {
		return 0, err
	}
	return p, nil
}

// String returns the decimal string representation of the ListenPort.
func (p ListenPort) String() string { return strconv.Itoa(int(p)) }

// IsSet reports whether a non-zero port was configured.
func (p ListenPort) IsSet() bool { return p != 0 }

// Validate returns an error if the ListenPort is outside the valid range.
func (p ListenPort) Validate() error {
	if p < 0 || p > 65535 {
		return &InvalidListenPortError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidListenPortError.
func (e *InvalidListenPortError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("invalid listen port %q: must be a number in 1-65535", e.Input)
	}
	return fmt.Sprintf("invalid listen port %d: must be in 1-65535", e.Value)
}

// Unwrap returns ErrInvalidListenPort for errors.Is() compatibility.
func (e *InvalidListenPortError) Unwrap() error { return ErrInvalidListenPort }
