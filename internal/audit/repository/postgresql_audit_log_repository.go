// Package repository implements audit log persistence.
// Repositories support both PostgreSQL and MySQL and expose an append-only
// surface to the service: inserts and filtered reads, never updates.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	"github.com/allisson/vault/internal/database"
	apperrors "github.com/allisson/vault/internal/errors"
)

// PostgreSQLAuditLogRepository implements AuditLog persistence for PostgreSQL.
type PostgreSQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog into the PostgreSQL database. Uses transaction
// support via database.GetTx(). Handles nil actor and object references as NULL.
func (p *PostgreSQLAuditLogRepository) Create(ctx context.Context, auditLog *auditDomain.AuditLog) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_logs (id, actor_id, action, object_id, message, source_address, created_at, signature)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		auditLog.ID,
		nullableUUID(auditLog.ActorID),
		string(auditLog.Action),
		nullableUUID(auditLog.ObjectID),
		auditLog.Message,
		auditLog.SourceAddress,
		auditLog.CreatedAt,
		auditLog.Signature,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending (newest first)
// with pagination and optional action/actor/time filters. Time boundaries are
// inclusive. Returns an empty slice if no audit logs match.
func (p *PostgreSQLAuditLogRepository) List(
	ctx context.Context,
	filter auditDomain.Filter,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, actor_id, action, object_id, message, source_address, created_at, signature
			  FROM audit_logs`

	var args []any
	var conditions []string

	if filter.Action != nil {
		args = append(args, string(*filter.Action))
		conditions = append(conditions, fmt.Sprintf("action = $%d", len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		conditions = append(conditions, fmt.Sprintf("actor_id = $%d", len(args)))
	}
	if filter.CreatedAtFrom != nil {
		args = append(args, *filter.CreatedAtFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedAtTo != nil {
		args = append(args, *filter.CreatedAtTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() { _ = rows.Close() }()

	auditLogs := []*auditDomain.AuditLog{}
	for rows.Next() {
		var auditLog auditDomain.AuditLog
		var action string
		var actorID, objectID uuid.NullUUID

		err := rows.Scan(
			&auditLog.ID,
			&actorID,
			&action,
			&objectID,
			&auditLog.Message,
			&auditLog.SourceAddress,
			&auditLog.CreatedAt,
			&auditLog.Signature,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		auditLog.Action = auditDomain.Action(action)
		if actorID.Valid {
			auditLog.ActorID = &actorID.UUID
		}
		if objectID.Valid {
			auditLog.ObjectID = &objectID.UUID
		}
		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs created before the specified timestamp.
// When dryRun is true, returns count via SELECT COUNT(*) without deletion. When
// false, executes DELETE and returns affected rows. All timestamps are expected
// in UTC.
func (p *PostgreSQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < $1`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	query := `DELETE FROM audit_logs WHERE created_at < $1`
	result, err := querier.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}

	return count, nil
}

// NewPostgreSQLAuditLogRepository creates a new PostgreSQL AuditLog repository instance.
func NewPostgreSQLAuditLogRepository(db *sql.DB) *PostgreSQLAuditLogRepository {
	return &PostgreSQLAuditLogRepository{db: db}
}
