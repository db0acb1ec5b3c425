package layer

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	ErrDuplicateLayer   = errors.New("layer already registered")
	ErrMissingBaseLayer = errors.New("base layer not registered")
)

// BaseLayerID is the identifier of the mandatory fallback layer.
const BaseLayerID = "base"

// Registry holds the registered layers in registration order. Registration
// happens once per load pass; after Finalize the registry is read-only and
// safe for concurrent readers.
type Registry struct {
	order  []string
	layers map[string]*Layer
}

// NewRegistry allocates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{layers: make(map[string]*Layer)}
}

// Register inserts a layer. Registering the same identifier twice within
// one load pass is an error; a reload replaces the whole registry instead.
func (r *Registry) Register(id string, l *Layer) error {
	if _, exists := r.layers[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLayer, id)
	}
	r.order = append(r.order, id)
	r.layers[id] = l
	return nil
}

// Get looks up a layer by identifier. Absence is not an error; callers fall
// back to the base layer.
func (r *Registry) Get(id string) (*Layer, bool) {
	l, ok := r.layers[id]
	return l, ok
}

// Base returns the fallback layer. Finalize guarantees it exists.
func (r *Registry) Base() *Layer {
	return r.layers[BaseLayerID]
}

// Order returns layer identifiers in registration order.
func (r *Registry) Order() []string {
	return r.order
}

// Len returns the number of registered layers.
func (r *Registry) Len() int {
	return len(r.layers)
}

// Finalize checks registry-level invariants after a load pass.
func (r *Registry) Finalize() error {
	if _, ok := r.layers[BaseLayerID]; !ok {
		return ErrMissingBaseLayer
	}
	return nil
}
