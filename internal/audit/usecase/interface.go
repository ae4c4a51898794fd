// Package usecase implements business logic orchestration for the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
)

// AuditLogRepository defines persistence operations for audit logs. The
// surface is append-only: entries are inserted and read, never updated.
type AuditLogRepository interface {
	// Create inserts a new audit log entry.
	Create(ctx context.Context, auditLog *auditDomain.AuditLog) error

	// List retrieves audit logs ordered newest first with pagination and
	// optional filters. Returns an empty slice when nothing matches.
	List(ctx context.Context, filter auditDomain.Filter, offset, limit int) ([]*auditDomain.AuditLog, error)

	// DeleteOlderThan removes entries created before olderThan. When dryRun
	// is true it only counts the entries that would be removed.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// VerificationReport summarizes a batch integrity check over audit logs.
type VerificationReport struct {
	TotalChecked  int64
	SignedCount   int64
	UnsignedCount int64
	ValidCount    int64
	InvalidCount  int64
	InvalidLogs   []uuid.UUID
}

// AuditLogUseCase defines business logic operations for the tamper-evident
// audit trail. Every entry is signed at record time so later modification of
// any persisted field can be detected by VerifyBatch.
type AuditLogUseCase interface {
	// Record signs and persists a single audit log entry. The actorID and
	// objectID references are optional: anonymous shared downloads carry a
	// nil actor. Returns ErrInvalidAction for unknown actions.
	Record(
		ctx context.Context,
		actorID *uuid.UUID,
		action auditDomain.Action,
		objectID *uuid.UUID,
		message string,
		sourceAddress string,
	) error

	// List retrieves audit logs ordered newest first with pagination and
	// optional action, actor and time filters.
	List(ctx context.Context, filter auditDomain.Filter, offset, limit int) ([]*auditDomain.AuditLog, error)

	// VerifyBatch checks the signature of every audit log created within the
	// inclusive time range and reports valid, invalid and unsigned counts.
	VerifyBatch(ctx context.Context, startTime, endTime time.Time) (*VerificationReport, error)

	// DeleteOlderThan removes entries created before olderThan. When dryRun
	// is true it only counts the entries that would be removed.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}
