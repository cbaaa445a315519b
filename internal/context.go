package internal

import (
	"context"
	"time"
)

type traceIDKey struct{}

// TraceIDFromContext returns the X-Trace-ID of the current request, or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// WithTimeout bounds a background unit of work such as a reaper sweep.
// A non-positive duration falls back to DefaultReaperTimeout.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultReaperTimeout
	}
	return context.WithTimeout(ctx, d)
}
