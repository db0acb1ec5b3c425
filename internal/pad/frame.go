// Package pad speaks the macropad's auxiliary-display protocol: short
// frames pushed over the HID transport to show the active profile name and
// per-key labels. The transport itself is external; it implements Sink.
package pad

import (
	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/layer"
)

const (
	frameProfile   byte = 0x03
	frameKeyLabels byte = 0x04

	profileNameLen = 8
	keyLabelLen    = 4
)

// Sink transmits display frames to the device.
type Sink interface {
	Send(frame []byte) error
}

// NopSink discards frames (no device attached).
type NopSink struct{}

func (NopSink) Send([]byte) error { return nil }

// ProfileFrame builds the profile-name frame: tag byte plus the name in
// ASCII, truncated or zero-padded to eight bytes.
func ProfileFrame(name string) []byte {
	frame := make([]byte, 1+profileNameLen)
	frame[0] = frameProfile
	copy(frame[1:], asciiField(name, profileNameLen, 0))
	return frame
}

// KeyLabelFrame builds the key-label frame: tag byte plus twelve four-byte
// ASCII labels. The device draws lines top to bottom while slots count from
// the bottom row, so rows are emitted in 8..11, 4..7, 0..3 order.
func KeyLabelFrame(labels [12]string) []byte {
	frame := make([]byte, 0, 1+len(labels)*keyLabelLen)
	frame = append(frame, frameKeyLabels)
	rowOrder := []int{8, 4, 0}
	for _, row := range rowOrder {
		for i := row; i < row+4; i++ {
			frame = append(frame, asciiField(labels[i], keyLabelLen, ' ')...)
		}
	}
	return frame
}

// KeyLabels merges display labels for the twelve key slots: the active
// layer's binding name where bound, otherwise the base layer's.
func KeyLabels(base, active *layer.Layer) [12]string {
	var labels [12]string
	fill := func(l *layer.Layer) {
		if l == nil {
			return
		}
		for _, c := range control.Keys {
			if a := l.Binding(c); a != nil {
				labels[control.KeyIndex(c)] = a.Name
			}
		}
	}
	fill(base)
	if active != base {
		fill(active)
	}
	return labels
}

// asciiField truncates or pads s to exactly n bytes, dropping non-ASCII.
func asciiField(s string, n int, pad byte) []byte {
	out := make([]byte, 0, n)
	for i := 0; i < len(s) && len(out) < n; i++ {
		if s[i] < 0x80 {
			out = append(out, s[i])
		}
	}
	for len(out) < n {
		out = append(out, pad)
	}
	return out
}
