package layer

import (
	"fmt"
	"time"

	"github.com/macropadd/macropadd/internal/action"
	"github.com/macropadd/macropadd/internal/config"
	"github.com/macropadd/macropadd/internal/control"
)

// Build constructs a Registry from a validated document. All action trees
// are materialized here; zero document handling happens at dispatch time.
func Build(doc *config.Document) (*Registry, error) {
	r := NewRegistry()
	for _, id := range doc.Order {
		ls := doc.Layers[id]
		bindings := make(map[control.Control]*action.Action, len(ls.Bindings))
		for c, as := range ls.Bindings {
			a, err := buildAction(as)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %s: %w", id, c, err)
			}
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("layer %q: %s: %w", id, c, err)
			}
			bindings[c] = a
		}
		if err := r.Register(id, NewLayer(id, ls.Name, ls.Application, bindings)); err != nil {
			return nil, err
		}
	}
	if err := r.Finalize(); err != nil {
		return nil, err
	}
	return r, nil
}

func buildAction(as *config.ActionSpec) (*action.Action, error) {
	switch {
	case as == nil:
		return nil, fmt.Errorf("missing action")
	case as.Hotkey != nil:
		return &action.Action{Kind: action.KindHotkey, Name: as.Name, Combo: *as.Hotkey}, nil
	case as.Type != nil:
		return &action.Action{Kind: action.KindType, Name: as.Name, Text: *as.Type}, nil
	case as.ActivateWindow != nil:
		return &action.Action{Kind: action.KindActivateWindow, Name: as.Name, Window: *as.ActivateWindow}, nil
	case as.Sequence != nil:
		steps := make([]*action.Action, 0, len(as.Sequence.Steps))
		for i, stepSpec := range as.Sequence.Steps {
			step, err := buildAction(stepSpec)
			if err != nil {
				return nil, fmt.Errorf("sequence step %d: %w", i, err)
			}
			steps = append(steps, step)
		}
		return &action.Action{
			Kind:  action.KindSequence,
			Name:  as.Name,
			Steps: steps,
			Delay: time.Duration(as.Sequence.DelayMs) * time.Millisecond,
		}, nil
	case as.Repeat != nil:
		child, err := buildAction(as.Repeat.Action)
		if err != nil {
			return nil, fmt.Errorf("repeat action: %w", err)
		}
		return &action.Action{
			Kind:  action.KindRepeat,
			Name:  as.Name,
			Child: child,
			Count: as.Repeat.Count,
			Delay: time.Duration(as.Repeat.DelayMs) * time.Millisecond,
		}, nil
	default:
		return nil, fmt.Errorf("action matches no recognized shape")
	}
}
