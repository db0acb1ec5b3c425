package config

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// parseOnly unmarshals without validating, so tests can target Validate.
func parseOnly(t *testing.T, src string) *Document {
	t.Helper()
	var doc Document
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	return &doc
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want error // sentinel, nil = valid
	}{
		{
			name: "minimal valid",
			doc:  "base:\n  name: Base\n",
		},
		{
			name: "valid with bindings",
			doc: `
base:
  name: Base
  F13:
    hotkey: ctrl+c
  F14:
    sequence:
      steps:
        - type: hello
      delayMs: 0
  dialClick:
    repeat:
      action:
        hotkey: space
      count: 0
`,
		},
		{
			name: "missing base layer",
			doc:  "editor:\n  name: Code\n",
			want: ErrMissingBaseLayer,
		},
		{
			name: "missing layer name",
			doc:  "base: {}\n",
			want: ErrMissingLayerName,
		},
		{
			name: "no shape",
			doc:  "base:\n  name: Base\n  F13:\n    name: Foo\n",
			want: ErrUnknownActionShape,
		},
		{
			name: "two shapes",
			doc:  "base:\n  name: Base\n  F13:\n    hotkey: a\n    type: b\n",
			want: ErrUnknownActionShape,
		},
		{
			name: "negative sequence delay",
			doc: `
base:
  name: Base
  F13:
    sequence:
      steps:
        - hotkey: a
      delayMs: -5
`,
			want: ErrInvalidDelay,
		},
		{
			name: "negative repeat count",
			doc: `
base:
  name: Base
  F13:
    repeat:
      action:
        hotkey: a
      count: -1
`,
			want: ErrInvalidCount,
		},
		{
			name: "name too long",
			doc:  "base:\n  name: Base\n  F13:\n    name: toolong\n    hotkey: a\n",
			want: ErrNameTooLong,
		},
		{
			name: "nested shape error surfaces",
			doc: `
base:
  name: Base
  F13:
    sequence:
      steps:
        - notAThing: a
`,
			want: ErrUnknownActionShape,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(parseOnly(t, tc.doc))
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidate_NestingTooDeep(t *testing.T) {
	var b strings.Builder
	b.WriteString("base:\n  name: Base\n  F13:\n")
	indent := "    "
	depth := 33
	for i := 0; i < depth; i++ {
		b.WriteString(indent + "repeat:\n")
		b.WriteString(indent + "  count: 1\n")
		b.WriteString(indent + "  action:\n")
		indent += "    "
	}
	b.WriteString(indent + "hotkey: a\n")

	err := Validate(parseOnly(t, b.String()))
	if !errors.Is(err, ErrNestingTooDeep) {
		t.Fatalf("expected ErrNestingTooDeep, got %v", err)
	}
}

func TestValidate_ReportsAllFindings(t *testing.T) {
	doc := `
editor:
  name: ""
  F13:
    hotkey: a
    type: b
`
	err := Validate(parseOnly(t, doc))
	if !errors.Is(err, ErrMissingBaseLayer) {
		t.Errorf("missing base not reported: %v", err)
	}
	if !errors.Is(err, ErrMissingLayerName) {
		t.Errorf("missing name not reported: %v", err)
	}
	if !errors.Is(err, ErrUnknownActionShape) {
		t.Errorf("bad shape not reported: %v", err)
	}
}
