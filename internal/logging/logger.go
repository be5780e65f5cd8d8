// Package logging defines the structured-logging interface used by the
// catvote client. Components receive a Logger and never reach for a global.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "vote confirmed", "image_id", imageID, "vote_id", id)
type Logger interface {
	// Debug logs details useful only while diagnosing the client.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a condition the client recovered from (ephemeral identity,
	// swallowed reconciliation failure).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
