// SPDX-License-Identifier: MPL-2.0

// Package loader resolves module names to module instances.
//
// The catalogue is an explicit registration table filled at process start;
// Load never touches registry state.
package loader

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/modserver/modserver/pkg/modules"
	"github.com/modserver/modserver/pkg/types"
)

var (
	// ErrModuleNotFound is returned by Load for a name with no factory.
	ErrModuleNotFound = errors.New("module not found")
	// ErrLoadFailed is wrapped by every LoadError.
	ErrLoadFailed = errors.New("module failed to load")
	// ErrDuplicateModule is returned by Register for a name already taken.
	ErrDuplicateModule = errors.New("module already registered")
	// ErrNilFactory is returned by Register when no factory is given.
	ErrNilFactory = errors.New("nil module factory")
)

type (
	// Factory builds a fresh module instance.
	Factory func(ctx context.Context) (modules.Module, error)

	// Catalog is the name → factory registration table.
	Catalog struct {
		mu        sync.RWMutex
		factories map[types.ModuleName]Factory
	}

	// LoadError reports a module whose factory failed or panicked.
	LoadError struct {
		Name  types.ModuleName
		Cause error
	}
)

// NewCatalog returns an empty catalogue.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[types.ModuleName]Factory)}
}

// Register adds a factory under name.
func (c *Catalog) Register(name types.ModuleName, f Factory) error {
	if err := name.Validate(); err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("%w: %s", ErrNilFactory, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateModule, name)
	}
	c.factories[name] = f
	return nil
}

// MustRegister is Register for init-time tables; it panics on error.
func (c *Catalog) MustRegister(name types.ModuleName, f Factory) {
	if err := c.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []types.ModuleName {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.factories))
}

// Load builds the module registered under name.
func (c *Catalog) Load(ctx context.Context, name types.ModuleName) (modules.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	f, ok := c.factories[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}

	m, err := build(ctx, f)
	if err != nil {
		return nil, &LoadError{Name: name, Cause: err}
	}
	if m == nil {
		return nil, &LoadError{Name: name, Cause: errors.New("factory returned no module")}
	}
	return m, nil
}

func build(ctx context.Context, f Factory) (m modules.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return f(ctx)
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading module %s: %v", e.Name, e.Cause)
}

// Unwrap exposes both ErrLoadFailed and the underlying cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Cause}
}
