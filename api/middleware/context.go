package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const ctxUserID contextKey = "user_id"

// ActorFromContext returns the authenticated user's ID, or nil for anonymous
// requests.
func ActorFromContext(ctx context.Context) *uuid.UUID {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxUserID).(uuid.UUID); ok {
		id := v
		return &id
	}
	return nil
}

// WithActor injects the authenticated user into the context.
func WithActor(ctx context.Context, userID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}
