// SPDX-License-Identifier: MPL-2.0

package serverbase

import "github.com/charmbracelet/log"

// Option configures a Base instance.
type Option func(*Base)

// WithErrorBuffer sets the buffer size of the async error channel (default 1).
func WithErrorBuffer(size int) Option {
	return func(b *Base) {
		b.errCh = make(chan error, size)
	}
}

// WithLogger attaches a logger that receives state transitions at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(b *Base) {
		b.logger = logger
	}
}
