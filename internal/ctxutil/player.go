// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// PlayerKey is the context key for the player ID.
type PlayerKey struct{}

// WithPlayerID returns a context with the player ID embedded.
func WithPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, PlayerKey{}, playerID)
}

// PlayerFromContext returns the player ID from context, or empty string if not set.
func PlayerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(PlayerKey{}).(string); ok {
		return v
	}
	return ""
}
