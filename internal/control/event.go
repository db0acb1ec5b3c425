package control

import "time"

// EventKind discriminates raw input event types delivered by the driver.
type EventKind string

const (
	KindKeyDown   EventKind = "keyDown"
	KindKeyUp     EventKind = "keyUp"
	KindDialTurn  EventKind = "dialTurn"
	KindDialPress EventKind = "dialPress"
)

// Valid reports whether k is one of the known event kinds.
func (k EventKind) Valid() bool {
	switch k {
	case KindKeyDown, KindKeyUp, KindDialTurn, KindDialPress:
		return true
	}
	return false
}

// Event is one raw input event from the device driver.
type Event struct {
	Control    Control
	Kind       EventKind
	ReceivedAt time.Time
}

// Actionable reports whether the event should trigger a bound action.
// Key releases are ignored; everything else fires on arrival.
func (e Event) Actionable() bool {
	return e.Kind != KindKeyUp
}
