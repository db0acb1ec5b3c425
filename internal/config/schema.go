package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/macropadd/macropadd/internal/control"
)

// Document is the top-level YAML structure: a mapping of layer identifiers
// to layer specs. Document order is preserved because the resolver's
// tie-break prefers later entries.
type Document struct {
	Order  []string
	Layers map[string]*LayerSpec
}

// BaseLayerID is the identifier of the mandatory fallback layer.
const BaseLayerID = "base"

// UnmarshalYAML decodes the root mapping, keeping the entry order.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: document root must be a mapping of layers", value.Line)
	}
	d.Order = nil
	d.Layers = make(map[string]*LayerSpec, len(value.Content)/2)
	for i := 0; i < len(value.Content)-1; i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		id := keyNode.Value
		if _, dup := d.Layers[id]; dup {
			return fmt.Errorf("line %d: duplicate layer %q", keyNode.Line, id)
		}
		var ls LayerSpec
		if err := valNode.Decode(&ls); err != nil {
			return fmt.Errorf("layer %q: %w", id, err)
		}
		d.Order = append(d.Order, id)
		d.Layers[id] = &ls
	}
	return nil
}

// MarshalYAML emits layers in their original document order.
func (d *Document) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range d.Order {
		ls := d.Layers[id]
		if ls == nil {
			continue
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: id}
		valNode := &yaml.Node{}
		if err := valNode.Encode(ls); err != nil {
			return nil, fmt.Errorf("layer %q: %w", id, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}
	return root, nil
}

// LayerSpec is one named set of control bindings. Control bindings appear
// inline next to name/application, so (un)marshalling is by hand; any key
// that is neither a known field nor a valid control identifier is an error.
type LayerSpec struct {
	Name        string
	Application string
	Bindings    map[control.Control]*ActionSpec
}

func (l *LayerSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: layer must be a mapping", value.Line)
	}
	l.Bindings = make(map[control.Control]*ActionSpec)
	for i := 0; i < len(value.Content)-1; i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		switch keyNode.Value {
		case "name":
			if err := valNode.Decode(&l.Name); err != nil {
				return fmt.Errorf("line %d: name: %w", valNode.Line, err)
			}
		case "application":
			if err := valNode.Decode(&l.Application); err != nil {
				return fmt.Errorf("line %d: application: %w", valNode.Line, err)
			}
		default:
			c, err := control.Parse(keyNode.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w: %q", keyNode.Line, ErrUnknownKey, keyNode.Value)
			}
			if _, dup := l.Bindings[c]; dup {
				return fmt.Errorf("line %d: duplicate binding for %s", keyNode.Line, c)
			}
			var as ActionSpec
			if err := valNode.Decode(&as); err != nil {
				return fmt.Errorf("line %d: %s: %w", valNode.Line, c, err)
			}
			l.Bindings[c] = &as
		}
	}
	return nil
}

// MarshalYAML writes name, application (when set), then bindings in
// canonical control order.
func (l *LayerSpec) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, v interface{}) error {
		valNode := &yaml.Node{}
		if err := valNode.Encode(v); err != nil {
			return err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key}, valNode)
		return nil
	}
	if err := add("name", l.Name); err != nil {
		return nil, err
	}
	if l.Application != "" {
		if err := add("application", l.Application); err != nil {
			return nil, err
		}
	}
	for _, c := range control.All {
		if as, ok := l.Bindings[c]; ok && as != nil {
			if err := add(string(c), as); err != nil {
				return nil, fmt.Errorf("%s: %w", c, err)
			}
		}
	}
	return node, nil
}

// ActionSpec is the document form of an action. Exactly one of the shape
// fields may be set; the validator enforces this.
type ActionSpec struct {
	Name           string        `yaml:"name,omitempty"`
	Hotkey         *string       `yaml:"hotkey,omitempty"`
	Type           *string       `yaml:"type,omitempty"`
	ActivateWindow *string       `yaml:"activateWindow,omitempty"`
	Sequence       *SequenceSpec `yaml:"sequence,omitempty"`
	Repeat         *RepeatSpec   `yaml:"repeat,omitempty"`
}

// SequenceSpec runs steps in order with DelayMs between consecutive steps.
type SequenceSpec struct {
	Steps   []*ActionSpec `yaml:"steps"`
	DelayMs int           `yaml:"delayMs,omitempty"`
}

// RepeatSpec runs Action Count times with DelayMs between repetitions.
type RepeatSpec struct {
	Action  *ActionSpec `yaml:"action"`
	Count   int         `yaml:"count"`
	DelayMs int         `yaml:"delayMs,omitempty"`
}

// shapeCount returns how many of the one-of shape fields are set.
func (a *ActionSpec) shapeCount() int {
	n := 0
	if a.Hotkey != nil {
		n++
	}
	if a.Type != nil {
		n++
	}
	if a.ActivateWindow != nil {
		n++
	}
	if a.Sequence != nil {
		n++
	}
	if a.Repeat != nil {
		n++
	}
	return n
}
