// SPDX-License-Identifier: MPL-2.0

package serverbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Base is the embeddable lifecycle core. A Base is single-use: once it
// reaches a terminal state, build a new server.
type Base struct {
	state atomic.Int32

	mu      sync.Mutex
	lastErr error

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	readyCh chan struct{}
	errCh   chan error

	logger *log.Logger
}

// NewBase returns a Base in StateCreated.
func NewBase(opts ...Option) *Base {
	b := &Base{
		readyCh: make(chan struct{}),
		errCh:   make(chan error, 1),
	}
	b.state.Store(int32(StateCreated))
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current state without locking.
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning reports whether the server is in StateRunning.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err delivers asynchronous serve errors.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error recorded by Fail, if any.
func (b *Base) LastError() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// BeginStart moves Created to Starting and creates the lifecycle context.
// A ctx that is already done fails the server without starting it.
func (b *Base) BeginStart(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		b.Fail(fmt.Errorf("context done before start: %w", err))
		return b.LastError()
	}

	if !b.state.CompareAndSwap(int32(StateCreated), int32(StateStarting)) {
		return fmt.Errorf("cannot start server in state %s", b.State())
	}

	b.ctx, b.cancel = context.WithCancel(context.Background())
	b.debug("state", "state", StateStarting)
	return nil
}

// MarkRunning moves Starting to Running and releases WaitReady callers.
func (b *Base) MarkRunning() {
	if b.state.CompareAndSwap(int32(StateStarting), int32(StateRunning)) {
		close(b.readyCh)
		b.debug("state", "state", StateRunning)
	}
}

// Fail records err, enters StateFailed and cancels the lifecycle context.
func (b *Base) Fail(err error) {
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()

	b.state.Store(int32(StateFailed))
	if b.cancel != nil {
		b.cancel()
	}
	b.SendError(err)
	b.debug("state", "state", StateFailed, "err", err)
}

// BeginStop moves a starting or running server to Stopping and cancels its
// context. It returns false when there is nothing to shut down; a server
// that never started goes straight to Stopped.
func (b *Base) BeginStop() bool {
	for {
		cur := b.State()
		switch cur {
		case StateCreated:
			if b.state.CompareAndSwap(int32(StateCreated), int32(StateStopped)) {
				return false
			}
		case StateStarting, StateRunning:
			if b.state.CompareAndSwap(int32(cur), int32(StateStopping)) {
				if b.cancel != nil {
					b.cancel()
				}
				b.debug("state", "state", StateStopping)
				return true
			}
		default:
			return false
		}
	}
}

// MarkStopped enters the terminal Stopped state.
func (b *Base) MarkStopped() {
	b.state.Store(int32(StateStopped))
	b.debug("state", "state", StateStopped)
}

// WaitReady blocks until MarkRunning or ctx is done.
func (b *Base) WaitReady(ctx context.Context) error {
	select {
	case <-b.readyCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for server ready: %w", ctx.Err())
	}
}

// Ready is closed once the server is running.
func (b *Base) Ready() <-chan struct{} {
	return b.readyCh
}

// Context is the lifecycle context; nil before BeginStart.
func (b *Base) Context() context.Context {
	return b.ctx
}

// Go runs fn in a tracked goroutine that Wait joins.
func (b *Base) Go(fn func()) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn()
	}()
}

// Wait blocks until every goroutine started with Go has returned.
func (b *Base) Wait() {
	b.wg.Wait()
}

// SendError publishes err without blocking; it is dropped if the buffer is full.
func (b *Base) SendError(err error) {
	select {
	case b.errCh <- err:
	default:
	}
}

func (b *Base) debug(msg string, kv ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, kv...)
	}
}
