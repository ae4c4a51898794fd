package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	cryptoService "github.com/allisson/vault/internal/crypto/service"
	"github.com/allisson/vault/internal/database"
	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
	vaultService "github.com/allisson/vault/internal/vault/service"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	txManager             database.TxManager
	objectRepo            ObjectRepository
	objectStore           vaultService.ObjectStore
	engine                cryptoService.Engine
	shareTokens           vaultService.ShareTokenService
	auditRecorder         AuditRecorder
	logger                *slog.Logger
	storageKeyMaxAttempts int
	shareDefaultTTL       time.Duration
	shareMaxTTL           time.Duration
}

// Upload encrypts the payload and stores the ciphertext under a fresh
// system-generated storage key inside the owner's partition. On a storage key
// collision the already-written blob is removed and the key regenerated, up
// to the configured attempt bound.
func (v *vaultUseCase) Upload(
	ctx context.Context,
	caller vaultDomain.Identity,
	input *UploadInput,
) (*vaultDomain.StoredObject, error) {
	if len(input.Payload) == 0 {
		return nil, vaultDomain.ErrEmptyPayload
	}

	ciphertext, nonce, err := v.engine.Encrypt(input.Payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt payload")
	}

	for attempt := 0; attempt < v.storageKeyMaxAttempts; attempt++ {
		object := &vaultDomain.StoredObject{
			ID:          uuid.Must(uuid.NewV7()),
			DisplayName: input.DisplayName,
			StorageKey:  uuid.Must(uuid.NewV7()),
			OwnerID:     caller.ID,
			Nonce:       nonce,
			Size:        int64(len(input.Payload)),
			CreatedAt:   time.Now().UTC(),
		}

		if err := v.objectStore.Put(ctx, object.BlobKey(), ciphertext); err != nil {
			return nil, err
		}

		err := v.txManager.WithTx(ctx, func(txCtx context.Context) error {
			return v.objectRepo.Create(txCtx, object)
		})
		if err == nil {
			v.record(ctx, &caller.ID, auditDomain.ActionUpload, &object.ID,
				fmt.Sprintf("uploaded %q (%d bytes)", object.DisplayName, object.Size), input.SourceAddress)
			return object, nil
		}

		// Compensate: the catalog row does not exist, so the blob must not either
		if delErr := v.objectStore.Delete(ctx, object.BlobKey()); delErr != nil &&
			!apperrors.Is(delErr, vaultDomain.ErrPayloadMissing) {
			v.logger.Error("failed to remove orphaned blob",
				slog.String("blob_key", object.BlobKey()),
				slog.Any("error", delErr),
			)
		}

		if !apperrors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}

		v.logger.Warn("storage key collision, regenerating",
			slog.String("owner_id", caller.ID.String()),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, apperrors.Wrapf(apperrors.ErrStorageExhausted,
		"storage key generation failed after %d attempts", v.storageKeyMaxAttempts)
}

// Download fetches, decrypts and returns an object's payload. Authorization
// happens after the catalog lookup so denials can reference the object; a
// denial is audited and surfaces as ErrAccessDenied.
func (v *vaultUseCase) Download(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	sourceAddress string,
) (*DownloadOutput, error) {
	object, err := v.objectRepo.Get(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if !vaultDomain.Authorize(caller, object) {
		v.record(ctx, &caller.ID, auditDomain.ActionDenied, &object.ID,
			"download denied", sourceAddress)
		return nil, vaultDomain.ErrAccessDenied
	}

	plaintext, err := v.fetchAndDecrypt(ctx, object)
	if err != nil {
		return nil, err
	}

	v.record(ctx, &caller.ID, auditDomain.ActionDownload, &object.ID,
		fmt.Sprintf("downloaded %q", object.DisplayName), sourceAddress)

	return &DownloadOutput{Object: object, Plaintext: plaintext}, nil
}

// List returns catalog rows visible to the caller. Admins see every object,
// users only their own. Listing never touches payloads and is not audited.
func (v *vaultUseCase) List(
	ctx context.Context,
	caller vaultDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	if caller.IsAdmin() {
		return v.objectRepo.ListAll(ctx, offset, limit)
	}
	return v.objectRepo.ListByOwner(ctx, caller.ID, offset, limit)
}

// Delete removes an object's ciphertext and catalog row, blob first so a
// storage failure leaves the catalog row intact and the delete retryable. A
// blob that is already gone does not fail the operation.
func (v *vaultUseCase) Delete(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	sourceAddress string,
) error {
	object, err := v.objectRepo.Get(ctx, objectID)
	if err != nil {
		return err
	}

	if !vaultDomain.Authorize(caller, object) {
		v.record(ctx, &caller.ID, auditDomain.ActionDenied, &object.ID,
			"delete denied", sourceAddress)
		return vaultDomain.ErrAccessDenied
	}

	if err := v.objectStore.Delete(ctx, object.BlobKey()); err != nil &&
		!apperrors.Is(err, vaultDomain.ErrPayloadMissing) {
		return err
	}

	err = v.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return v.objectRepo.Delete(txCtx, objectID)
	})
	if err != nil {
		return err
	}

	v.record(ctx, &caller.ID, auditDomain.ActionDelete, &object.ID,
		fmt.Sprintf("deleted %q", object.DisplayName), sourceAddress)

	return nil
}

// IssueShareLink mints a time-limited bearer token granting read access to a
// single object. A non-positive ttl falls back to the default; longer
// requests are clamped to the configured maximum.
func (v *vaultUseCase) IssueShareLink(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	ttl time.Duration,
	sourceAddress string,
) (*ShareLinkOutput, error) {
	object, err := v.objectRepo.Get(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if !vaultDomain.Authorize(caller, object) {
		v.record(ctx, &caller.ID, auditDomain.ActionDenied, &object.ID,
			"share denied", sourceAddress)
		return nil, vaultDomain.ErrAccessDenied
	}

	if ttl <= 0 {
		ttl = v.shareDefaultTTL
	}
	if ttl > v.shareMaxTTL {
		ttl = v.shareMaxTTL
	}

	token, expiresAt, err := v.shareTokens.Issue(object.ID, ttl)
	if err != nil {
		return nil, err
	}

	v.record(ctx, &caller.ID, auditDomain.ActionShareIssued, &object.ID,
		fmt.Sprintf("issued share link valid until %s", expiresAt.Format(time.RFC3339)), sourceAddress)

	return &ShareLinkOutput{Token: token, ExpiresAt: expiresAt}, nil
}

// SharedDownload redeems a share token. The token is verified purely
// cryptographically before the catalog is consulted, so forged or expired
// tokens never learn whether an object exists. The download is audited with a
// nil actor.
func (v *vaultUseCase) SharedDownload(
	ctx context.Context,
	token string,
	sourceAddress string,
) (*DownloadOutput, error) {
	objectID, err := v.shareTokens.Verify(token)
	if err != nil {
		return nil, err
	}

	object, err := v.objectRepo.Get(ctx, objectID)
	if err != nil {
		return nil, err
	}

	plaintext, err := v.fetchAndDecrypt(ctx, object)
	if err != nil {
		return nil, err
	}

	v.record(ctx, nil, auditDomain.ActionDownload, &object.ID,
		fmt.Sprintf("downloaded %q via share link", object.DisplayName), sourceAddress)

	return &DownloadOutput{Object: object, Plaintext: plaintext}, nil
}

// fetchAndDecrypt reads the ciphertext for object and decrypts it with the
// object's stored nonce.
func (v *vaultUseCase) fetchAndDecrypt(ctx context.Context, object *vaultDomain.StoredObject) ([]byte, error) {
	ciphertext, err := v.objectStore.Get(ctx, object.BlobKey())
	if err != nil {
		return nil, err
	}

	plaintext, err := v.engine.Decrypt(ciphertext, object.Nonce)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to decrypt object %s", object.ID)
	}

	return plaintext, nil
}

// record writes an audit log entry synchronously, after the operation's
// effect. Failures are logged and swallowed so a broken audit store cannot
// take the vault down.
func (v *vaultUseCase) record(
	ctx context.Context,
	actorID *uuid.UUID,
	action auditDomain.Action,
	objectID *uuid.UUID,
	message string,
	sourceAddress string,
) {
	if err := v.auditRecorder.Record(ctx, actorID, action, objectID, message, sourceAddress); err != nil {
		v.logger.Error("failed to record audit log",
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}

// NewVaultUseCase creates a new VaultUseCase with the provided dependencies.
func NewVaultUseCase(
	txManager database.TxManager,
	objectRepo ObjectRepository,
	objectStore vaultService.ObjectStore,
	engine cryptoService.Engine,
	shareTokens vaultService.ShareTokenService,
	auditRecorder AuditRecorder,
	logger *slog.Logger,
	storageKeyMaxAttempts int,
	shareDefaultTTL time.Duration,
	shareMaxTTL time.Duration,
) VaultUseCase {
	return &vaultUseCase{
		txManager:             txManager,
		objectRepo:            objectRepo,
		objectStore:           objectStore,
		engine:                engine,
		shareTokens:           shareTokens,
		auditRecorder:         auditRecorder,
		logger:                logger,
		storageKeyMaxAttempts: storageKeyMaxAttempts,
		shareDefaultTTL:       shareDefaultTTL,
		shareMaxTTL:           shareMaxTTL,
	}
}
