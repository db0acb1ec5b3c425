// Package layer holds the layer registry and the focus-driven resolver.
// A registry is immutable once built; hot-reload builds a new registry and
// swaps it atomically.
package layer

import (
	"fmt"

	"github.com/macropadd/macropadd/internal/action"
	"github.com/macropadd/macropadd/internal/control"
)

// Layer is one named set of control-to-action bindings, optionally scoped
// to a single foreground application.
type Layer struct {
	id          string
	name        string
	application string
	bindings    map[control.Control]*action.Action
}

// NewLayer constructs a layer. Bindings may be nil for an empty layer.
func NewLayer(id, name, application string, bindings map[control.Control]*action.Action) *Layer {
	if bindings == nil {
		bindings = make(map[control.Control]*action.Action)
	}
	return &Layer{id: id, name: name, application: application, bindings: bindings}
}

func (l *Layer) ID() string          { return l.id }
func (l *Layer) Name() string        { return l.name }
func (l *Layer) Application() string { return l.application }

// Binding returns the action bound to a control, or nil when unbound.
func (l *Layer) Binding(c control.Control) *action.Action {
	return l.bindings[c]
}

// Controls returns the bound controls in canonical order.
func (l *Layer) Controls() []control.Control {
	out := make([]control.Control, 0, len(l.bindings))
	for _, c := range control.All {
		if _, ok := l.bindings[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%s)", l.id)
}
