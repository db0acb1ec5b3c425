// Package engine is the input dispatcher: it receives raw device events,
// resolves the active layer, looks up the bound action (falling back to the
// base layer) and hands it to the executor. Intake is serial; executions
// run concurrently per control.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/executor"
	"github.com/macropadd/macropadd/internal/layer"
	"github.com/macropadd/macropadd/internal/metrics"
)

// Engine wires the resolver and executor behind the two entry points the
// collaborators call: OnInputEvent (device driver) and OnFocusChanged (OS
// integration).
type Engine struct {
	resolver *layer.Resolver
	exec     *executor.Executor
	pool     *workerPool[control.Event]

	mu        sync.Mutex
	listeners []func(active, base *layer.Layer)
}

// New creates an Engine and starts its dispatch worker. queueDepth bounds
// how many events may be pending before new ones are dropped.
func New(ctx context.Context, resolver *layer.Resolver, exec *executor.Executor, queueDepth int) *Engine {
	e := &Engine{
		resolver: resolver,
		exec:     exec,
	}
	e.pool = newWorkerPool(ctx, 1, queueDepth, e.dispatch)
	return e
}

// OnInputEvent is the driver entry point, called once per raw input event.
// It never blocks; a full queue drops the event. Returns whether the event
// was accepted.
func (e *Engine) OnInputEvent(c control.Control, kind control.EventKind) bool {
	ev := control.Event{Control: c, Kind: kind, ReceivedAt: time.Now()}
	if !ev.Actionable() {
		return true
	}
	if !e.pool.Submit(ev) {
		metrics.EventsDropped.Inc()
		slog.Warn("input event dropped, queue full", "control", c, "kind", kind)
		return false
	}
	metrics.EventsDispatched.Inc()
	return true
}

// OnFocusChanged is the OS-integration entry point, called whenever the
// foreground application changes.
func (e *Engine) OnFocusChanged(applicationExecutable string) {
	active := e.resolver.OnFocusChanged(applicationExecutable)
	metrics.LayerActivations.WithLabelValues(active.ID()).Inc()
	slog.Debug("focus changed", "application", applicationExecutable, "layer", active.ID())
	e.notify(active)
}

// SwapRegistry activates a freshly built registry (hot reload). Readers
// never observe a partially applied registry: the swap is a single atomic
// pointer store inside the resolver.
func (e *Engine) SwapRegistry(reg *layer.Registry) {
	active := e.resolver.SwapRegistry(reg)
	slog.Info("layer registry swapped", "layers", reg.Len(), "active", active.ID())
	e.notify(active)
}

// Resolver exposes the engine's resolver for status surfaces.
func (e *Engine) Resolver() *layer.Resolver {
	return e.resolver
}

// OnLayerChange subscribes to active-layer changes; used to refresh the
// device display. The callback also fires after registry swaps.
func (e *Engine) OnLayerChange(fn func(active, base *layer.Layer)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) notify(active *layer.Layer) {
	base := e.resolver.Base()
	e.mu.Lock()
	listeners := make([]func(active, base *layer.Layer), len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.Unlock()
	for _, fn := range listeners {
		fn(active, base)
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the dispatch queue and stops in-flight executions.
func (e *Engine) Shutdown() {
	e.pool.Drain()
	e.exec.Shutdown()
}

// dispatch handles one accepted event on the dispatch worker.
func (e *Engine) dispatch(ctx context.Context, ev control.Event) {
	metrics.QueueLatency.Observe(float64(time.Since(ev.ReceivedAt).Microseconds()) / 1000)
	active := e.resolver.Active()
	act := active.Binding(ev.Control)
	source := active
	if act == nil {
		if base := e.resolver.Base(); base != active {
			act = base.Binding(ev.Control)
			source = base
		}
	}
	if act == nil {
		// An unmapped control is a legitimate configuration, not an error.
		metrics.EventsUnbound.Inc()
		slog.Debug("unbound control", "control", ev.Control, "layer", active.ID())
		return
	}
	h := e.exec.Trigger(ctx, ev.Control, act)
	slog.Debug("dispatched", "control", ev.Control, "layer", source.ID(), "handle", h.ID())
}
