package logging

import (
	"context"
	"log/slog"
	"strings"
)

type contextKey int

const (
	sessionKey contextKey = iota
	collectionKey
	entityKey
)

// WithSessionID tags ctx with the identifier of the running CLI invocation.
func WithSessionID(ctx context.Context, id string) context.Context {
	return withValue(ctx, sessionKey, id)
}

// WithCollection tags ctx with the collection being operated on.
func WithCollection(ctx context.Context, collection string) context.Context {
	return withValue(ctx, collectionKey, collection)
}

// WithEntity tags ctx with the entity directory name being operated on.
func WithEntity(ctx context.Context, name string) context.Context {
	return withValue(ctx, entityKey, name)
}

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// SessionIDFromContext returns the session identifier stored in ctx.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, sessionKey)
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := stringFromContext(ctx, sessionKey); ok {
		fields = append(fields, slog.String(FieldSessionID, id))
	}
	if collection, ok := stringFromContext(ctx, collectionKey); ok {
		fields = append(fields, slog.String(FieldCollection, collection))
	}
	if name, ok := stringFromContext(ctx, entityKey); ok {
		fields = append(fields, slog.String(FieldEntity, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
