package pad

import (
	"bytes"
	"testing"

	"github.com/macropadd/macropadd/internal/action"
	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/layer"
)

func TestProfileFrame(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []byte
	}{
		{
			name: "short name zero padded",
			in:   "Base",
			want: []byte{0x03, 'B', 'a', 's', 'e', 0, 0, 0, 0},
		},
		{
			name: "long name truncated",
			in:   "Presentation",
			want: []byte{0x03, 'P', 'r', 'e', 's', 'e', 'n', 't', 'a'},
		},
		{
			name: "non-ascii dropped",
			in:   "Pää",
			want: []byte{0x03, 'P', 0, 0, 0, 0, 0, 0, 0},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ProfileFrame(tc.in)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("frame = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKeyLabelFrame(t *testing.T) {
	var labels [12]string
	labels[0] = "F13" // bottom row, first slot
	labels[8] = "Top" // top row, first slot
	labels[11] = "Last"

	frame := KeyLabelFrame(labels)
	if len(frame) != 1+12*4 {
		t.Fatalf("frame length = %d", len(frame))
	}
	if frame[0] != 0x04 {
		t.Errorf("tag = %#x", frame[0])
	}
	// Rows are emitted top to bottom: slots 8..11 first, 0..3 last.
	if got := string(frame[1:5]); got != "Top " {
		t.Errorf("first field = %q", got)
	}
	if got := string(frame[13:17]); got != "Last" {
		t.Errorf("slot 11 field = %q", got)
	}
	if got := string(frame[33:37]); got != "F13 " {
		t.Errorf("slot 0 field = %q", got)
	}
	// Unbound slots render as spaces.
	if got := string(frame[5:9]); got != "    " {
		t.Errorf("empty field = %q", got)
	}
}

func TestKeyLabels_Merge(t *testing.T) {
	base := layer.NewLayer("base", "Base", "", map[control.Control]*action.Action{
		control.F13: {Kind: action.KindHotkey, Name: "Term", Combo: "a"},
		control.F14: {Kind: action.KindHotkey, Name: "Mail", Combo: "b"},
	})
	active := layer.NewLayer("editor", "Code", "code.exe", map[control.Control]*action.Action{
		control.F14: {Kind: action.KindHotkey, Name: "Fmt", Combo: "c"},
		control.F15: {Kind: action.KindHotkey, Name: "Run", Combo: "d"},
	})

	labels := KeyLabels(base, active)
	if labels[0] != "Term" {
		t.Errorf("slot 0 = %q, want base label", labels[0])
	}
	if labels[1] != "Fmt" {
		t.Errorf("slot 1 = %q, want active override", labels[1])
	}
	if labels[2] != "Run" {
		t.Errorf("slot 2 = %q, want active label", labels[2])
	}
	if labels[3] != "" {
		t.Errorf("slot 3 = %q, want empty", labels[3])
	}

	// Active == base must not double-apply.
	same := KeyLabels(base, base)
	if same[0] != "Term" || same[2] != "" {
		t.Errorf("base-only labels = %v", same)
	}
}

func TestDial_Turn(t *testing.T) {
	var d Dial
	if got := d.Turn(1); got != control.DialInc {
		t.Errorf("increasing counter = %s", got)
	}
	if got := d.Turn(5); got != control.DialInc {
		t.Errorf("increasing counter = %s", got)
	}
	if got := d.Turn(3); got != control.DialDec {
		t.Errorf("decreasing counter = %s", got)
	}
}
