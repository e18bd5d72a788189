package common

import "context"

type ctxKey string

const (
	userIDKey ctxKey = "identity/user-id"
	anonIDKey ctxKey = "identity/anon-id"
)

// WithUserID stores the resolved user identifier on the provided context.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID extracts the user identifier from the context if present.
func UserID(ctx context.Context) (string, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// WithAnonID stores the anonymous session identifier on the provided context.
func WithAnonID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, anonIDKey, id)
}

// AnonID extracts the anonymous session identifier from the context if present.
func AnonID(ctx context.Context) (string, bool) {
	v := ctx.Value(anonIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
