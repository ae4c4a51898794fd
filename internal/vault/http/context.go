// Package http provides HTTP handlers and middleware for the encrypted
// object vault.
package http

import (
	"context"

	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// identityKey is a context key type for storing authenticated identities.
type identityKey struct{}

// WithIdentity stores an authenticated identity in the context.
// This is typically called by the identity middleware after resolving the
// caller from the request headers.
func WithIdentity(ctx context.Context, identity vaultDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns (identity, true) if one is present, or (zero, false) if no
// identity was set.
func GetIdentity(ctx context.Context) (vaultDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(vaultDomain.Identity)
	return identity, ok
}
