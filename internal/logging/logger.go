// Package logging defines the structured-logging interface the server and
// client share. The only implementation today wraps slog; the interface
// keeps callers from binding to it.
package logging

import "context"

// Logger writes structured, leveled log entries. The variadic args are
// alternating key-value pairs, as in slog:
//
//	log.Info(ctx, "account created", "account_id", id)
type Logger interface {
	// Info records normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn records unusual conditions that did not fail the operation.
	Warn(ctx context.Context, msg string, args ...any)

	// Error records failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a logger whose entries always carry the given
	// key-value pairs.
	With(args ...any) Logger
}
