// Package service provides the vault's infrastructure services: the blob
// store holding encrypted payloads and the capability token service backing
// share links.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ObjectStore abstracts the blob storage holding encrypted payloads. Keys are
// opaque per-owner addresses; the store never sees plaintext.
type ObjectStore interface {
	// Put writes data under key, overwriting any existing blob.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the blob stored under key. Returns ErrPayloadMissing when no
	// blob exists for the key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the blob stored under key. Deleting a missing blob
	// returns ErrPayloadMissing.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying bucket resources.
	Close() error
}

// ShareTokenService issues and verifies bearer capability tokens that grant
// time-limited read access to a single object.
type ShareTokenService interface {
	// Issue creates a signed token granting read access to objectID until
	// expiry. The TTL is assumed to be already clamped by the caller.
	Issue(objectID uuid.UUID, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// Verify checks the token signature, purpose and expiry and returns the
	// object ID the token grants access to. Returns ErrTokenExpired for
	// expired tokens and ErrTokenInvalid for any other defect. Verification
	// is purely cryptographic: no catalog lookup happens here.
	Verify(token string) (uuid.UUID, error)
}
