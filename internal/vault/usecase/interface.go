// Package usecase implements business logic orchestration for the encrypted
// object vault. It coordinates the crypto engine, the blob store and the
// catalog so that plaintext only ever exists in memory inside a request.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// ObjectRepository defines persistence operations for the object catalog.
type ObjectRepository interface {
	// Create inserts a new catalog row. Returns ErrConflict when the storage
	// key collides with an existing row.
	Create(ctx context.Context, object *vaultDomain.StoredObject) error

	// Get retrieves an object by ID. Returns ErrObjectNotFound if missing.
	Get(ctx context.Context, objectID uuid.UUID) (*vaultDomain.StoredObject, error)

	// ListByOwner retrieves objects owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*vaultDomain.StoredObject, error)

	// ListAll retrieves every object, newest first.
	ListAll(ctx context.Context, offset, limit int) ([]*vaultDomain.StoredObject, error)

	// Delete removes a catalog row. Returns ErrObjectNotFound if missing.
	Delete(ctx context.Context, objectID uuid.UUID) error
}

// AuditRecorder is the narrow audit surface the vault depends on. The audit
// module's use case satisfies it.
type AuditRecorder interface {
	Record(
		ctx context.Context,
		actorID *uuid.UUID,
		action auditDomain.Action,
		objectID *uuid.UUID,
		message string,
		sourceAddress string,
	) error
}

// UploadInput carries a single upload request.
type UploadInput struct {
	// DisplayName is the caller-supplied name, kept for presentation only.
	DisplayName string
	// Payload is the plaintext to encrypt and store.
	Payload []byte
	// SourceAddress is the caller's network address for the audit trail.
	SourceAddress string
}

// DownloadOutput carries a decrypted payload together with its catalog row.
type DownloadOutput struct {
	Object    *vaultDomain.StoredObject
	Plaintext []byte
}

// ShareLinkOutput carries a freshly issued share capability.
type ShareLinkOutput struct {
	Token     string
	ExpiresAt time.Time
}

// VaultUseCase defines the operations of the encrypted object vault. Every
// payload-touching operation runs the full pipeline: authorization, catalog,
// blob store, crypto engine and audit trail.
type VaultUseCase interface {
	// Upload encrypts the payload and stores it under a fresh system-generated
	// storage key inside the owner's partition. Rejects empty payloads with
	// ErrEmptyPayload. Returns ErrStorageExhausted when storage key generation
	// exhausts its retry bound.
	Upload(ctx context.Context, caller vaultDomain.Identity, input *UploadInput) (*vaultDomain.StoredObject, error)

	// Download fetches, decrypts and returns an object's payload. Only the
	// owner or an admin may download; denials are audited and surface as
	// ErrAccessDenied.
	Download(ctx context.Context, caller vaultDomain.Identity, objectID uuid.UUID, sourceAddress string) (*DownloadOutput, error)

	// List returns catalog rows visible to the caller: owned objects for
	// users, every object for admins. Payloads are not touched.
	List(ctx context.Context, caller vaultDomain.Identity, offset, limit int) ([]*vaultDomain.StoredObject, error)

	// Delete removes an object's catalog row and ciphertext. A missing blob
	// does not fail the deletion. Only the owner or an admin may delete.
	Delete(ctx context.Context, caller vaultDomain.Identity, objectID uuid.UUID, sourceAddress string) error

	// IssueShareLink mints a time-limited bearer token granting read access
	// to a single object. A non-positive ttl falls back to the default and
	// longer requests are clamped to the configured maximum.
	IssueShareLink(
		ctx context.Context,
		caller vaultDomain.Identity,
		objectID uuid.UUID,
		ttl time.Duration,
		sourceAddress string,
	) (*ShareLinkOutput, error)

	// SharedDownload redeems a share token. The token is verified before any
	// catalog access; downloads are audited without an actor.
	SharedDownload(ctx context.Context, token string, sourceAddress string) (*DownloadOutput, error)
}
