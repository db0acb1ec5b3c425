// Package focus defines the foreground-application listener contract. The
// OS integration (a win event hook, a compositor protocol, etc.) lives
// outside this module and implements Listener.
package focus

import "context"

// Listener delivers foreground-application changes. Listen starts delivery
// in the background and returns once the hook is installed; onChange
// receives the executable name (or path) of the newly focused application,
// empty when unknown.
type Listener interface {
	Listen(ctx context.Context, onChange func(applicationExecutable string)) error
}

// Noop is the listener for platforms without a focus hook; the base layer
// stays active forever.
type Noop struct{}

func (Noop) Listen(context.Context, func(string)) error { return nil }
