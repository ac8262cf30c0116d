// ABOUTME: Request-context propagation of the authenticated identity id
// ABOUTME: Provides WithIdentity/IdentityFromContext used by the HTTP gate

package auth

import (
	"context"
)

// identityKey is the key type for storing the identity id in context.Context.
type identityKey struct{}

// WithIdentity returns a new context carrying the authenticated identity id.
func WithIdentity(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the authenticated identity id from the
// context, returning "" if not present.
func IdentityFromContext(ctx context.Context) string {
	id, ok := ctx.Value(identityKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

// MustIdentityFromContext retrieves the identity id, panicking if not
// present. Only for handlers mounted behind RequireAuth.
func MustIdentityFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if id == "" {
		panic("auth: identity not found in context")
	}
	return id
}
