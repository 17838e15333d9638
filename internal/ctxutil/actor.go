// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting chat user's ID.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// WithActorID returns a context with the acting user's ID embedded.
// The chat surface sets this before calling into services so mutations can be
// logged against the user who triggered them.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the acting user's ID from context, or empty string
// if not set (scheduler-triggered operations have no actor).
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
