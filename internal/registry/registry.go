// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/modserver/modserver/internal/router"
	"github.com/modserver/modserver/pkg/modules"
	"github.com/modserver/modserver/pkg/types"
)

// ErrInvalidArgument is returned for an empty or malformed name or path.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	// Enabled: the module was loaded and mounted.
	Enabled Outcome = iota + 1
	// AlreadyLoaded: a descriptor with that name exists; nothing changed.
	AlreadyLoaded
	// Disabled: the module was unmounted and removed.
	Disabled
	// NotLoaded: no descriptor with that name; nothing changed.
	NotLoaded
)

type (
	// Outcome classifies a successful Enable or Disable call.
	Outcome int

	// Loader resolves a module name to a fresh module.
	Loader interface {
		Load(ctx context.Context, name types.ModuleName) (modules.Module, error)
	}

	// Mounter is the router surface the registry drives.
	Mounter interface {
		Mount(path string, h http.Handler) (router.MountToken, error)
		Unmount(tok router.MountToken) error
	}

	// Descriptor records one active module. Descriptors are never modified
	// after Enable creates them.
	Descriptor struct {
		Name      types.ModuleName
		Path      types.MountPath
		Module    modules.Module
		Token     router.MountToken
		MountedAt time.Time
	}

	// Registry tracks active modules and the default root.
	Registry struct {
		loader  Loader
		mounter Mounter
		logger  *log.Logger
		now     func() time.Time

		// opMu serializes Enable and Disable end to end, including the load.
		opMu sync.Mutex

		mu          sync.RWMutex
		active      []Descriptor
		defaultRoot types.MountPath
	}

	// Option configures a Registry.
	Option func(*Registry)
)

// String returns a lowercase label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Enabled:
		return "enabled"
	case AlreadyLoaded:
		return "already loaded"
	case Disabled:
		return "disabled"
	case NotLoaded:
		return "not loaded"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithClock overrides the time source used for MountedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// New returns an empty Registry driving m and loading through l.
func New(l Loader, m Mounter, opts ...Option) *Registry {
	r := &Registry{
		loader:  l,
		mounter: m,
		logger:  log.New(io.Discard),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enable loads name and mounts it at path.
//
// If a module with that name is already active, Enable returns its
// descriptor with AlreadyLoaded and does nothing else. On any error the
// registry and the router are left as they were.
func (r *Registry) Enable(ctx context.Context, name, path string) (Descriptor, Outcome, error) {
	modName := types.ModuleName(name)
	if err := modName.Validate(); err != nil {
		return Descriptor{}, 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	mountPath, err := types.ParseMountPath(path)
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	r.opMu.Lock()
	defer r.opMu.Unlock()

	if d, ok := r.Lookup(modName); ok {
		return d, AlreadyLoaded, nil
	}

	mod, err := r.loader.Load(ctx, modName)
	if err != nil {
		return Descriptor{}, 0, err
	}

	tok, err := r.mounter.Mount(string(mountPath), mod.Handler())
	if err != nil {
		return Descriptor{}, 0, fmt.Errorf("mounting %s at %s: %w", modName, mountPath, err)
	}

	d := Descriptor{
		Name:      modName,
		Path:      mountPath,
		Module:    mod,
		Token:     tok,
		MountedAt: r.now(),
	}

	r.mu.Lock()
	r.active = append(r.active, d)
	if r.defaultRoot == "" {
		r.defaultRoot = mountPath
	}
	r.mu.Unlock()

	r.logger.Info("module enabled", "module", modName, "path", mountPath)
	return d, Enabled, nil
}

// Disable unmounts the first active module named name.
//
// An absent name yields NotLoaded and no error. An error is returned only
// when the router refuses the unmount, in which case nothing changed.
func (r *Registry) Disable(name string) (Descriptor, Outcome, error) {
	modName := types.ModuleName(name)

	r.opMu.Lock()
	defer r.opMu.Unlock()

	r.mu.RLock()
	idx := slices.IndexFunc(r.active, func(d Descriptor) bool { return d.Name == modName })
	r.mu.RUnlock()
	if idx < 0 {
		return Descriptor{}, NotLoaded, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.active[idx]
	if err := r.mounter.Unmount(d.Token); err != nil {
		return Descriptor{}, 0, fmt.Errorf("unmounting %s from %s: %w", d.Name, d.Path, err)
	}
	r.active = slices.Delete(r.active, idx, idx+1)

	r.logger.Info("module disabled", "module", d.Name, "path", d.Path)
	if d.Path == r.defaultRoot && !r.servesPathLocked(d.Path) {
		r.logger.Warn("default root no longer served", "path", d.Path)
	}
	return d, Disabled, nil
}

// List returns the active descriptors in mount order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.active)
}

// Lookup returns the active descriptor for name.
func (r *Registry) Lookup(name types.ModuleName) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.active {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ResolveDefault picks the default root after the startup batch: the path of
// requested if it is active, else the path of the first active module, else
// none. The chosen path is returned; ok is false when none was chosen.
func (r *Registry) ResolveDefault(requested string) (types.MountPath, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defaultRoot = ""
	if requested != "" {
		for _, d := range r.active {
			if string(d.Name) == requested {
				r.defaultRoot = d.Path
				break
			}
		}
		if r.defaultRoot == "" {
			r.logger.Warn("requested default module is not active", "module", requested)
		}
	}
	if r.defaultRoot == "" && len(r.active) > 0 {
		r.defaultRoot = r.active[0].Path
	}

	if r.defaultRoot == "" {
		return "", false
	}
	r.logger.Info("default root resolved", "path", r.defaultRoot)
	return r.defaultRoot, true
}

// DefaultRoot returns the current default root.
func (r *Registry) DefaultRoot() (types.MountPath, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultRoot, r.defaultRoot != ""
}

// RootHandler answers GET / with a 302 to the default root, or 404 when
// there is none.
func (r *Registry) RootHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		target, ok := r.DefaultRoot()
		if !ok {
			http.NotFound(w, req)
			return
		}
		http.Redirect(w, req, string(target), http.StatusFound)
	})
}

func (r *Registry) servesPathLocked(p types.MountPath) bool {
	return slices.ContainsFunc(r.active, func(d Descriptor) bool { return d.Path == p })
}
