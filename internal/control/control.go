package control

import "fmt"

// Control identifies one physical input on the pad: twelve function-key
// slots plus the three rotary dial roles.
type Control string

const (
	F13 Control = "F13"
	F14 Control = "F14"
	F15 Control = "F15"
	F16 Control = "F16"
	F17 Control = "F17"
	F18 Control = "F18"
	F19 Control = "F19"
	F20 Control = "F20"
	F21 Control = "F21"
	F22 Control = "F22"
	F23 Control = "F23"
	F24 Control = "F24"

	DialInc   Control = "dialInc"
	DialDec   Control = "dialDec"
	DialClick Control = "dialClick"
)

// Keys lists the function-key slots in device order.
var Keys = []Control{F13, F14, F15, F16, F17, F18, F19, F20, F21, F22, F23, F24}

// All lists every bindable control in canonical order. Serialization uses
// this order so a document round-trips deterministically.
var All = []Control{
	F13, F14, F15, F16, F17, F18, F19, F20, F21, F22, F23, F24,
	DialInc, DialDec, DialClick,
}

var valid = func() map[Control]struct{} {
	m := make(map[Control]struct{}, len(All))
	for _, c := range All {
		m[c] = struct{}{}
	}
	return m
}()

// Valid reports whether c names a bindable control.
func Valid(c Control) bool {
	_, ok := valid[c]
	return ok
}

// Parse converts a document key into a Control.
func Parse(s string) (Control, error) {
	c := Control(s)
	if !Valid(c) {
		return "", fmt.Errorf("unknown control %q", s)
	}
	return c, nil
}

// KeyIndex returns the 0-based slot of a function key (F13 → 0 … F24 → 11),
// or -1 for dial controls.
func KeyIndex(c Control) int {
	for i, k := range Keys {
		if k == c {
			return i
		}
	}
	return -1
}
