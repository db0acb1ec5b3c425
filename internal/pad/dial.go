package pad

import "github.com/macropadd/macropadd/internal/control"

// Dial converts the absolute rotation counter reported by the device into
// increment/decrement controls. The counter wraps at the device's word
// size; only the direction of change matters.
type Dial struct {
	last int
}

// Turn records a new rotation reading and returns the dial control it maps
// to: DialInc when the counter grew, DialDec otherwise.
func (d *Dial) Turn(value int) control.Control {
	c := control.DialDec
	if value > d.last {
		c = control.DialInc
	}
	d.last = value
	return c
}
