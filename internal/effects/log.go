// Package effects provides implementations of the executor's outbound
// interface. The real keystroke/window integration is supplied by the OS
// layer; Log stands in on platforms without one and records every call.
package effects

import (
	"context"
	"log/slog"
)

// Log implements executor.Effects by logging each side effect instead of
// performing it.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log backed by logger (slog.Default when nil).
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

func (l *Log) EmulateHotkey(ctx context.Context, combo string) error {
	l.logger.InfoContext(ctx, "emulate hotkey", "combo", combo)
	return nil
}

func (l *Log) InjectText(ctx context.Context, text string) error {
	l.logger.InfoContext(ctx, "inject text", "len", len(text))
	return nil
}

func (l *Log) ActivateWindow(ctx context.Context, identifier string) error {
	l.logger.InfoContext(ctx, "activate window", "window", identifier)
	return nil
}
