// Package auth carries the caller identity through request contexts.
// Identity is issued and validated by an upstream collaborator; this
// package only transports it.
package auth

import (
	"context"

	"github.com/jobtrack/jobtrack/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// callerContextKey is the context key for storing the Caller.
	callerContextKey contextKey = "caller"
)

// ContextWithCaller adds the caller identity to the context.
func ContextWithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext retrieves the caller from the context.
// The second result is false if no identity is present.
func CallerFromContext(ctx context.Context) (model.Caller, bool) {
	caller, ok := ctx.Value(callerContextKey).(model.Caller)
	if !ok || caller.IsAnonymous() {
		return model.Caller{}, false
	}
	return caller, true
}

// MustCallerFromContext retrieves the caller from the context.
// Panics if not present (use only when the identity middleware has run).
func MustCallerFromContext(ctx context.Context) model.Caller {
	caller, ok := CallerFromContext(ctx)
	if !ok {
		panic("caller not found in context - ensure identity middleware is applied")
	}
	return caller
}

// UserIDFromContext is a convenience function to get the caller's user ID.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	caller, _ := CallerFromContext(ctx)
	return caller.UserID
}
