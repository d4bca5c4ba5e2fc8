// Package ctxutil carries request-scoped identifiers through context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	accountIDKey ctxKey = "account_id"
	sessionIDKey ctxKey = "session_id"
	requestIDKey ctxKey = "request_id"
)

// Identity is the authenticated principal attached to a request.
type Identity struct {
	AccountID uuid.UUID
	SessionID string
}

// WithIdentity stores both the account ID and the session ID in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, accountIDKey, id.AccountID)
	return context.WithValue(ctx, sessionIDKey, id.SessionID)
}

// AccountIDFromCtx extracts the account ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func AccountIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(accountIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// SessionIDFromCtx extracts the session ID from the context.
// Returns "" and false if absent.
func SessionIDFromCtx(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IsAuthenticated reports whether the context carries a session.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := SessionIDFromCtx(ctx)
	return ok
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
