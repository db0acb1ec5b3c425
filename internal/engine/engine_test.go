package engine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/macropadd/macropadd/internal/config"
	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/engine"
	"github.com/macropadd/macropadd/internal/executor"
	"github.com/macropadd/macropadd/internal/layer"
	"github.com/macropadd/macropadd/internal/metrics"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(arg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, arg)
}

func (r *recorder) EmulateHotkey(_ context.Context, combo string) error {
	r.record(combo)
	return nil
}
func (r *recorder) InjectText(_ context.Context, text string) error {
	r.record(text)
	return nil
}
func (r *recorder) ActivateWindow(_ context.Context, id string) error {
	r.record(id)
	return nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

const engineDoc = `
base:
  name: Base
  F13:
    hotkey: base-f13
  F24:
    hotkey: base-f24
editor:
  name: Code
  application: code.exe
  F13:
    hotkey: editor-f13
  F14:
    sequence:
      steps:
        - hotkey: seq-a
        - hotkey: seq-b
      delayMs: 150
`

func buildRegistry(t *testing.T, src string) *layer.Registry {
	t.Helper()
	doc, err := config.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	reg, err := layer.Build(doc)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return reg
}

func newTestEngine(t *testing.T, rec *recorder) *engine.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	resolver := layer.NewResolver(buildRegistry(t, engineDoc))
	exec := executor.New(rec, 0)
	return engine.New(ctx, resolver, exec, 32)
}

func waitCalls(t *testing.T, rec *recorder, n int) []string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := rec.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d side effects, got %v", n, rec.snapshot())
	return nil
}

func TestDispatch_BaseLayer(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	if !eng.OnInputEvent(control.F13, control.KindKeyDown) {
		t.Fatal("event rejected")
	}
	got := waitCalls(t, rec, 1)
	if got[0] != "base-f13" {
		t.Errorf("calls = %v", got)
	}
}

func TestDispatch_ActiveLayerOverridesBase(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	eng.OnFocusChanged("code.exe")
	eng.OnInputEvent(control.F13, control.KindKeyDown)
	got := waitCalls(t, rec, 1)
	if got[0] != "editor-f13" {
		t.Errorf("calls = %v", got)
	}
}

func TestDispatch_FallbackToBaseForUnboundControl(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	// editor is active but leaves F24 unbound; base still answers.
	eng.OnFocusChanged("code.exe")
	eng.OnInputEvent(control.F24, control.KindKeyDown)
	got := waitCalls(t, rec, 1)
	if got[0] != "base-f24" {
		t.Errorf("calls = %v", got)
	}
}

func TestDispatch_UnboundIsNoop(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	eng.OnInputEvent(control.DialClick, control.KindDialPress)
	time.Sleep(50 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("expected no side effects, got %v", got)
	}

	// The dispatcher keeps running afterwards.
	eng.OnInputEvent(control.F13, control.KindKeyDown)
	waitCalls(t, rec, 1)
}

func TestDispatch_KeyUpIgnored(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	eng.OnInputEvent(control.F13, control.KindKeyUp)
	time.Sleep(50 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("expected no side effects, got %v", got)
	}
}

func TestDispatch_LastEventWinsPerControl(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)
	eng.OnFocusChanged("code.exe")

	// First F14 sequence parks in its 150ms delay after seq-a; the second
	// event cancels it and starts over.
	eng.OnInputEvent(control.F14, control.KindKeyDown)
	waitCalls(t, rec, 1)
	eng.OnInputEvent(control.F14, control.KindKeyDown)

	got := waitCalls(t, rec, 3)
	want := []string{"seq-a", "seq-a", "seq-b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %v, want %v", got, want)
		}
	}

	// The cancelled execution's seq-b must never fire.
	time.Sleep(250 * time.Millisecond)
	if got := rec.snapshot(); len(got) != 3 {
		t.Errorf("extra side effects after cancellation: %v", got)
	}
}

func queueLatencySamples(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	if err := metrics.QueueLatency.Write(&m); err != nil {
		t.Fatalf("read histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestDispatch_ObservesQueueLatency(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	before := queueLatencySamples(t)
	eng.OnInputEvent(control.F13, control.KindKeyDown)
	waitCalls(t, rec, 1)
	if after := queueLatencySamples(t); after <= before {
		t.Errorf("queue latency samples = %d, want > %d", after, before)
	}
}

func TestSwapRegistry_ChangesDispatch(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	eng.SwapRegistry(buildRegistry(t, "base:\n  name: Base\n  F13:\n    hotkey: swapped\n"))
	eng.OnInputEvent(control.F13, control.KindKeyDown)
	got := waitCalls(t, rec, 1)
	if got[0] != "swapped" {
		t.Errorf("calls = %v", got)
	}
}

func TestOnLayerChange_Notifies(t *testing.T) {
	rec := &recorder{}
	eng := newTestEngine(t, rec)

	var mu sync.Mutex
	var seen []string
	eng.OnLayerChange(func(active, base *layer.Layer) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, active.ID())
	})

	eng.OnFocusChanged("code.exe")
	eng.OnFocusChanged("unknown.exe")

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "editor" || seen[1] != "base" {
		t.Errorf("layer change notifications = %v", seen)
	}
}
