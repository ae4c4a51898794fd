package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vault/internal/metrics"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (v *vaultUseCaseWithMetrics) observe(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

// Upload records metrics for upload operations.
func (v *vaultUseCaseWithMetrics) Upload(
	ctx context.Context,
	caller vaultDomain.Identity,
	input *UploadInput,
) (*vaultDomain.StoredObject, error) {
	start := time.Now()
	object, err := v.next.Upload(ctx, caller, input)
	v.observe(ctx, "object_upload", start, err)
	return object, err
}

// Download records metrics for download operations.
func (v *vaultUseCaseWithMetrics) Download(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	sourceAddress string,
) (*DownloadOutput, error) {
	start := time.Now()
	output, err := v.next.Download(ctx, caller, objectID, sourceAddress)
	v.observe(ctx, "object_download", start, err)
	return output, err
}

// List records metrics for list operations.
func (v *vaultUseCaseWithMetrics) List(
	ctx context.Context,
	caller vaultDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	start := time.Now()
	objects, err := v.next.List(ctx, caller, offset, limit)
	v.observe(ctx, "object_list", start, err)
	return objects, err
}

// Delete records metrics for delete operations.
func (v *vaultUseCaseWithMetrics) Delete(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	sourceAddress string,
) error {
	start := time.Now()
	err := v.next.Delete(ctx, caller, objectID, sourceAddress)
	v.observe(ctx, "object_delete", start, err)
	return err
}

// IssueShareLink records metrics for share-link issuance.
func (v *vaultUseCaseWithMetrics) IssueShareLink(
	ctx context.Context,
	caller vaultDomain.Identity,
	objectID uuid.UUID,
	ttl time.Duration,
	sourceAddress string,
) (*ShareLinkOutput, error) {
	start := time.Now()
	output, err := v.next.IssueShareLink(ctx, caller, objectID, ttl, sourceAddress)
	v.observe(ctx, "share_link_issue", start, err)
	return output, err
}

// SharedDownload records metrics for shared downloads.
func (v *vaultUseCaseWithMetrics) SharedDownload(
	ctx context.Context,
	token string,
	sourceAddress string,
) (*DownloadOutput, error) {
	start := time.Now()
	output, err := v.next.SharedDownload(ctx, token, sourceAddress)
	v.observe(ctx, "shared_download", start, err)
	return output, err
}
