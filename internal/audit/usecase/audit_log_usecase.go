package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	auditService "github.com/allisson/vault/internal/audit/service"
	apperrors "github.com/allisson/vault/internal/errors"
)

// verifyBatchSize bounds the page size used when walking audit logs during
// batch verification.
const verifyBatchSize = 500

// auditLogUseCase implements AuditLogUseCase with HMAC-signed entries.
type auditLogUseCase struct {
	auditLogRepo AuditLogRepository
	signer       auditService.Signer
	signingKey   []byte
}

// Record signs and persists an audit log entry. Generates a UUIDv7 identifier
// and UTC timestamp, then computes the signature over the canonical encoding
// of all persisted fields before insertion.
func (a *auditLogUseCase) Record(
	ctx context.Context,
	actorID *uuid.UUID,
	action auditDomain.Action,
	objectID *uuid.UUID,
	message string,
	sourceAddress string,
) error {
	if !slices.Contains(auditDomain.Actions(), action) {
		return apperrors.Wrapf(auditDomain.ErrInvalidAction, "action %q", action)
	}

	auditLog := &auditDomain.AuditLog{
		ID:            uuid.Must(uuid.NewV7()),
		ActorID:       actorID,
		Action:        action,
		ObjectID:      objectID,
		Message:       message,
		SourceAddress: sourceAddress,
		// Truncated to the timestamp column precision so the stored row
		// canonicalizes identically to this one.
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	signature, err := a.signer.Sign(a.signingKey, auditLog)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign audit log")
	}
	auditLog.Signature = signature

	if err := a.auditLogRepo.Create(ctx, auditLog); err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination and optional filters. Filter boundaries are inclusive and
// all timestamps are expected in UTC.
func (a *auditLogUseCase) List(
	ctx context.Context,
	filter auditDomain.Filter,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	auditLogs, err := a.auditLogRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}

	return auditLogs, nil
}

// VerifyBatch walks every audit log created within the inclusive time range
// and verifies its signature, paging through the repository in fixed-size
// batches. Entries with an empty signature are counted as unsigned rather
// than invalid.
func (a *auditLogUseCase) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*VerificationReport, error) {
	filter := auditDomain.Filter{
		CreatedAtFrom: &startTime,
		CreatedAtTo:   &endTime,
	}

	report := &VerificationReport{}

	for offset := 0; ; offset += verifyBatchSize {
		auditLogs, err := a.auditLogRepo.List(ctx, filter, offset, verifyBatchSize)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to list audit logs for verification")
		}

		for _, auditLog := range auditLogs {
			report.TotalChecked++

			if len(auditLog.Signature) == 0 {
				report.UnsignedCount++
				continue
			}

			report.SignedCount++
			if err := a.signer.Verify(a.signingKey, auditLog); err != nil {
				if apperrors.Is(err, auditDomain.ErrSignatureInvalid) {
					report.InvalidCount++
					report.InvalidLogs = append(report.InvalidLogs, auditLog.ID)
					continue
				}
				return nil, apperrors.Wrap(err, "failed to verify audit log signature")
			}
			report.ValidCount++
		}

		if len(auditLogs) < verifyBatchSize {
			break
		}
	}

	return report, nil
}

// DeleteOlderThan removes audit logs created before olderThan. When dryRun is
// true it returns the number of entries that would be removed without
// deleting anything.
func (a *auditLogUseCase) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	count, err := a.auditLogRepo.DeleteOlderThan(ctx, olderThan, dryRun)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}

	return count, nil
}

// NewAuditLogUseCase creates a new AuditLogUseCase with the provided
// dependencies. The signingKey must be the purpose-derived audit signing key,
// never the raw server secret.
func NewAuditLogUseCase(
	auditLogRepo AuditLogRepository,
	signer auditService.Signer,
	signingKey []byte,
) AuditLogUseCase {
	return &auditLogUseCase{
		auditLogRepo: auditLogRepo,
		signer:       signer,
		signingKey:   signingKey,
	}
}
