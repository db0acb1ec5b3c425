// Package action defines the in-memory action model: a closed tagged union
// over the five bindable behaviors. The model is pure data; execution lives
// in internal/executor and dispatches on Kind.
package action

import (
	"fmt"
	"time"
)

// MaxDepth caps Sequence/Repeat nesting. Documents deeper than this are
// rejected at validation time; the executor carries the same guard.
const MaxDepth = 32

// MaxNameLen bounds the display label shown on the pad's per-key screen.
const MaxNameLen = 4

// Kind discriminates the action variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindHotkey
	KindType
	KindActivateWindow
	KindSequence
	KindRepeat
)

func (k Kind) String() string {
	switch k {
	case KindHotkey:
		return "hotkey"
	case KindType:
		return "type"
	case KindActivateWindow:
		return "activateWindow"
	case KindSequence:
		return "sequence"
	case KindRepeat:
		return "repeat"
	default:
		return "invalid"
	}
}

// Action is one node of an action tree. Exactly the fields for its Kind are
// meaningful:
//
//	KindHotkey         — Combo
//	KindType           — Text
//	KindActivateWindow — Window
//	KindSequence       — Steps, Delay (between consecutive steps)
//	KindRepeat         — Child, Count, Delay (between repetitions)
//
// Name is an optional short label for the device display; it carries no
// execution semantics.
type Action struct {
	Kind Kind
	Name string

	Combo  string
	Text   string
	Window string

	Steps []*Action
	Child *Action
	Count int
	Delay time.Duration
}

func (a *Action) String() string {
	switch a.Kind {
	case KindHotkey:
		return fmt.Sprintf("Hotkey(%s)", a.Combo)
	case KindType:
		return fmt.Sprintf("Type(%s)", a.Text)
	case KindActivateWindow:
		return fmt.Sprintf("Activate(%s)", a.Window)
	case KindSequence:
		return fmt.Sprintf("Sequence(%d steps)", len(a.Steps))
	case KindRepeat:
		return fmt.Sprintf("Repeat(%d, %s)", a.Count, a.Child)
	default:
		return "Invalid"
	}
}

// Depth returns the nesting depth of the action tree: 1 for a leaf,
// 1 + max(children) for Sequence/Repeat.
func (a *Action) Depth() int {
	switch a.Kind {
	case KindSequence:
		max := 0
		for _, s := range a.Steps {
			if d := s.Depth(); d > max {
				max = d
			}
		}
		return 1 + max
	case KindRepeat:
		if a.Child == nil {
			return 1
		}
		return 1 + a.Child.Depth()
	default:
		return 1
	}
}

// Validate checks structural invariants independent of execution: a known
// kind, non-negative delays and counts, present children, and the nesting
// cap. Name length is advisory and checked at document validation, not here.
func (a *Action) Validate() error {
	return a.validate(1)
}

func (a *Action) validate(depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("action nesting exceeds %d levels", MaxDepth)
	}
	if a.Delay < 0 {
		return fmt.Errorf("%s: negative delay %v", a.Kind, a.Delay)
	}
	switch a.Kind {
	case KindHotkey, KindType, KindActivateWindow:
		return nil
	case KindSequence:
		for i, s := range a.Steps {
			if s == nil {
				return fmt.Errorf("sequence step %d: missing action", i)
			}
			if err := s.validate(depth + 1); err != nil {
				return err
			}
		}
		return nil
	case KindRepeat:
		if a.Count < 0 {
			return fmt.Errorf("repeat: negative count %d", a.Count)
		}
		if a.Child == nil {
			return fmt.Errorf("repeat: missing action")
		}
		return a.Child.validate(depth + 1)
	default:
		return fmt.Errorf("unrecognized action kind %d", a.Kind)
	}
}
