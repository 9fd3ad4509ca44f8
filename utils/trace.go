package utils

import (
	"context"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// TraceIDHeader carries the request trace ID between the wallet client
// and the backend; the trace middleware echoes it back on responses.
const TraceIDHeader = "X-Trace-ID"

func GenerateTraceID() string {
	return uuid.New().String()
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored on the context, or an
// empty string when the request arrived without one.
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey{}).(string); ok {
		return traceID
	}
	return ""
}
