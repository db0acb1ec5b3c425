package layer

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Resolver selects the active layer for the current foreground application.
// Selection runs once per focus change or registry swap and is cached; the
// hot path (Active) is a single atomic load and never blocks. Writers are
// serialized so the cached layer always belongs to the current registry.
type Resolver struct {
	registry atomic.Pointer[Registry]
	active   atomic.Pointer[Layer]

	mu    sync.Mutex
	focus string
}

// NewResolver creates a Resolver over an initial registry. The base layer
// is active until the first focus notification.
func NewResolver(reg *Registry) *Resolver {
	r := &Resolver{}
	r.registry.Store(reg)
	r.active.Store(resolve(reg, ""))
	return r
}

// Active returns the cached active layer.
func (r *Resolver) Active() *Layer {
	return r.active.Load()
}

// Base returns the fallback layer of the current registry.
func (r *Resolver) Base() *Layer {
	return r.registry.Load().Base()
}

// Registry returns the current registry.
func (r *Resolver) Registry() *Registry {
	return r.registry.Load()
}

// OnFocusChanged records the new foreground application and re-resolves.
// The argument may be an executable name or a full path; empty means the
// foreground application is unknown. Returns the newly active layer.
func (r *Resolver) OnFocusChanged(applicationExecutable string) *Layer {
	exe := executableName(applicationExecutable)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focus = exe
	active := resolve(r.registry.Load(), exe)
	r.active.Store(active)
	return active
}

// SwapRegistry atomically replaces the registry (used on hot-reload) and
// re-resolves against the last known focus. Returns the newly active layer.
func (r *Resolver) SwapRegistry(reg *Registry) *Layer {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.Store(reg)
	active := resolve(reg, r.focus)
	r.active.Store(active)
	return active
}

// executableName reduces a focus notification to a lowercase executable
// name. OS integrations may report full paths with either separator.
func executableName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return strings.ToLower(path)
}

// resolve picks the active layer: the last registered non-base layer whose
// application matches the foreground executable (case-insensitive), so
// later document entries win ties; otherwise base.
func resolve(reg *Registry, exe string) *Layer {
	active := reg.Base()
	if exe == "" {
		return active
	}
	for _, id := range reg.Order() {
		if id == BaseLayerID {
			continue
		}
		l, _ := reg.Get(id)
		if l.Application() == "" {
			continue
		}
		if strings.EqualFold(l.Application(), exe) {
			active = l
		}
	}
	return active
}
