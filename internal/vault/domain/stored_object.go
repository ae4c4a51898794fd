// Package domain defines the core domain models for the encrypted object vault.
// Objects are stored encrypted at rest under system-generated storage keys;
// caller-supplied display names are presentation-only and never influence the
// storage address.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoredObject represents the catalog record for one encrypted payload.
type StoredObject struct {
	// ID is the unique identifier for the object.
	ID uuid.UUID
	// DisplayName is the caller-supplied original name. Untrusted; used only
	// for presentation and attachment naming.
	DisplayName string
	// StorageKey is the system-generated, opaque address of the ciphertext
	// within the owner's partition. Never derived from DisplayName.
	StorageKey uuid.UUID
	// OwnerID references the identity that uploaded the object.
	OwnerID uuid.UUID
	// Nonce is the per-object random value used during AEAD encryption.
	// Generated exactly once at write time and immutable thereafter.
	Nonce []byte
	// Size is the plaintext payload size in bytes.
	Size int64
	// CreatedAt is the UTC timestamp when the object was stored.
	CreatedAt time.Time
}

// BlobKey returns the blob store address for the object's ciphertext. Payloads
// are partitioned per owner and addressed by the opaque storage key only.
func (s *StoredObject) BlobKey() string {
	return fmt.Sprintf("user_%s/%s", s.OwnerID, s.StorageKey)
}
