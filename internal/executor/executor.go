// Package executor runs bound action trees against the side-effect
// collaborators. Executions are per-control: a new trigger on a control
// cancels that control's in-flight execution, while distinct controls run
// concurrently. Delays suspend on a timer, never on a thread sleep, so a
// long Sequence or Repeat cannot stall dispatch.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macropadd/macropadd/internal/action"
	"github.com/macropadd/macropadd/internal/control"
	"github.com/macropadd/macropadd/internal/metrics"
)

// Effects is the outbound interface to the OS integration layer. Each call
// is a single atomic side effect; once dispatched it is not undone by a
// later cancellation.
type Effects interface {
	EmulateHotkey(ctx context.Context, combo string) error
	InjectText(ctx context.Context, text string) error
	ActivateWindow(ctx context.Context, identifier string) error
}

// Handle represents one in-flight execution. It is live from Trigger until
// Done is closed; at most one handle is live per control.
type Handle struct {
	id      string
	control control.Control
	cancel  context.CancelFunc
	done    chan struct{}
	err     error
}

// ID returns the handle's unique identifier.
func (h *Handle) ID() string { return h.id }

// Control returns the physical control that triggered the execution.
func (h *Handle) Control() control.Control { return h.control }

// Done is closed when the execution completes, fails, or is cancelled.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Err reports the execution outcome. Only valid after Done is closed:
// nil on completion, context.Canceled on cancellation, otherwise the
// side-effect failure that aborted the tree.
func (h *Handle) Err() error { return h.err }

// Cancel requests cancellation of the execution.
func (h *Handle) Cancel() { h.cancel() }

func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Executor interprets action trees. Safe for concurrent use.
type Executor struct {
	effects Effects
	timeout time.Duration // 0 = no global cap

	mu       sync.Mutex
	inflight map[control.Control]*Handle
	wg       sync.WaitGroup
}

// New creates an Executor. timeout, when positive, caps the wall time of
// any single execution as a defensive bound; the schema itself defines no
// maximum action duration.
func New(effects Effects, timeout time.Duration) *Executor {
	return &Executor{
		effects:  effects,
		timeout:  timeout,
		inflight: make(map[control.Control]*Handle),
	}
}

// Trigger starts executing act on behalf of c. If an execution for c is
// still live it is cancelled first (last event wins). The returned handle
// is already registered; the action tree runs on its own goroutine.
func (e *Executor) Trigger(ctx context.Context, c control.Control, act *action.Action) *Handle {
	var runCtx context.Context
	var cancel context.CancelFunc
	if e.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, e.timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	h := &Handle{
		id:      uuid.NewString(),
		control: c,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	e.mu.Lock()
	if prev := e.inflight[c]; prev != nil {
		prev.cancel()
		metrics.ExecutionsCancelled.Inc()
		slog.Debug("cancelled in-flight execution", "control", c, "handle", prev.id)
	}
	e.inflight[c] = h
	e.mu.Unlock()

	metrics.ExecutionsActive.Inc()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()

		start := time.Now()
		err := e.run(runCtx, act, 1)
		h.finish(err)

		e.mu.Lock()
		if e.inflight[c] == h {
			delete(e.inflight, c)
		}
		e.mu.Unlock()

		metrics.ExecutionsActive.Dec()
		metrics.ExecutionDuration.Observe(float64(time.Since(start).Milliseconds()))

		switch {
		case err == nil:
			slog.Debug("execution completed", "control", c, "handle", h.id, "action", act)
		case errors.Is(err, context.Canceled):
			// Normal outcome of the last-event-wins policy.
			slog.Debug("execution cancelled", "control", c, "handle", h.id)
		case errors.Is(err, context.DeadlineExceeded):
			slog.Warn("execution hit global timeout", "control", c, "handle", h.id, "timeout", e.timeout)
		default:
			slog.Warn("execution failed", "control", c, "handle", h.id, "err", err)
		}
	}()

	return h
}

// Inflight returns the live handle for a control, if any.
func (e *Executor) Inflight(c control.Control) (*Handle, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.inflight[c]
	return h, ok
}

// Shutdown cancels every live execution and waits for the goroutines to
// drain.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	for _, h := range e.inflight {
		h.cancel()
	}
	e.mu.Unlock()
	e.wg.Wait()
}

// run walks the action tree. The cancellation flag is checked before every
// step; a collaborator failure aborts the remainder of the tree.
func (e *Executor) run(ctx context.Context, act *action.Action, depth int) error {
	if depth > action.MaxDepth {
		return fmt.Errorf("action nesting exceeds %d levels", action.MaxDepth)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	switch act.Kind {
	case action.KindHotkey:
		return e.leaf(act, e.effects.EmulateHotkey(ctx, act.Combo))
	case action.KindType:
		return e.leaf(act, e.effects.InjectText(ctx, act.Text))
	case action.KindActivateWindow:
		return e.leaf(act, e.effects.ActivateWindow(ctx, act.Window))
	case action.KindSequence:
		for i, step := range act.Steps {
			if i > 0 {
				if err := wait(ctx, act.Delay); err != nil {
					return err
				}
			}
			if err := e.run(ctx, step, depth+1); err != nil {
				return err
			}
		}
		return nil
	case action.KindRepeat:
		for i := 0; i < act.Count; i++ {
			if i > 0 {
				if err := wait(ctx, act.Delay); err != nil {
					return err
				}
			}
			if err := e.run(ctx, act.Child, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unrecognized action kind %d", act.Kind)
	}
}

func (e *Executor) leaf(act *action.Action, err error) error {
	if err != nil {
		metrics.ActionsExecuted.WithLabelValues(act.Kind.String(), "error").Inc()
		return fmt.Errorf("%s: %w", act, err)
	}
	metrics.ActionsExecuted.WithLabelValues(act.Kind.String(), "success").Inc()
	return nil
}

// wait suspends cooperatively for d, waking early on cancellation.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
