package logger

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

type contextKey string

const (
	loggerKey    contextKey = "blessfleet.logger"
	attemptIDKey contextKey = "blessfleet.attempt_id"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the context's logger, or the default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// NewAttemptID returns a fresh, time-ordered attempt id.
func NewAttemptID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}

// WithAttemptID tags the context with a supervisor attempt id.
func WithAttemptID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, attemptIDKey, id)
}

// AttemptIDFromContext returns the attempt id, or "".
func AttemptIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(attemptIDKey).(string); ok {
		return id
	}
	return ""
}

// L returns the context's logger enriched with its attempt id.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := AttemptIDFromContext(ctx); id != "" {
		l = l.With("attempt_id", id)
	}
	return l
}
