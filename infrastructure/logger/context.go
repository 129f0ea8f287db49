package logger

import "context"

// Field names carried by request-scoped loggers.
const (
	FieldRequestID = "request_id"
	FieldBackend   = "backend"
)

type ctxKey struct{}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields stores a copy of the logger in ctx with fields attached. When
// ctx carries no logger the fields are attached to base instead.
func WithFields(ctx context.Context, base Logger, fields ...Field) context.Context {
	return WithContext(ctx, FromContext(ctx, base).With(fields...))
}

// FromContext returns the logger stored in ctx, or fallback when there is
// none. A nil fallback yields a no-op logger.
func FromContext(ctx context.Context, fallback Logger) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return NewNop()
}
