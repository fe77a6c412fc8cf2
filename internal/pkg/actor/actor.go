// Package actor carries the id of the acting user through a context.
package actor

import "context"

type contextKey struct{}

// System is the actor of mutations without a user.
const System = "system"

// With returns a context carrying actorID.
func With(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, contextKey{}, actorID)
}

// From returns the acting user id, or System.
func From(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok && id != "" {
		return id
	}
	return System
}
