package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	"github.com/allisson/vault/internal/metrics"
)

// auditLogUseCaseWithMetrics decorates AuditLogUseCase with metrics instrumentation.
type auditLogUseCaseWithMetrics struct {
	next    AuditLogUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditLogUseCaseWithMetrics wraps an AuditLogUseCase with metrics recording.
func NewAuditLogUseCaseWithMetrics(useCase AuditLogUseCase, m metrics.BusinessMetrics) AuditLogUseCase {
	return &auditLogUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit log creation operations.
func (a *auditLogUseCaseWithMetrics) Record(
	ctx context.Context,
	actorID *uuid.UUID,
	action auditDomain.Action,
	objectID *uuid.UUID,
	message string,
	sourceAddress string,
) error {
	start := time.Now()
	err := a.next.Record(ctx, actorID, action, objectID, message, sourceAddress)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_log_record", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_log_record", time.Since(start), status)

	return err
}

// List records metrics for audit log list operations.
func (a *auditLogUseCaseWithMetrics) List(
	ctx context.Context,
	filter auditDomain.Filter,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	start := time.Now()
	logs, err := a.next.List(ctx, filter, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_log_list", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_log_list", time.Since(start), status)

	return logs, err
}

// VerifyBatch records metrics for batch integrity verification.
func (a *auditLogUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	startTime, endTime time.Time,
) (*VerificationReport, error) {
	start := time.Now()
	report, err := a.next.VerifyBatch(ctx, startTime, endTime)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_log_verify_batch", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_log_verify_batch", time.Since(start), status)

	return report, err
}

// DeleteOlderThan records metrics for audit log deletion operations.
func (a *auditLogUseCaseWithMetrics) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	start := time.Now()
	count, err := a.next.DeleteOlderThan(ctx, olderThan, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_log_delete", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_log_delete", time.Since(start), status)

	return count, err
}
