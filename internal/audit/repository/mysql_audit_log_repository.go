package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	"github.com/allisson/vault/internal/database"
	apperrors "github.com/allisson/vault/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog into the MySQL database using BINARY(16) for
// UUIDs. Handles nil actor and object references as NULL.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *auditDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_logs (id, actor_id, action, object_id, message, source_address, created_at, signature)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	actorID, err := nullableBinaryUUID(auditLog.ActorID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log actor_id")
	}

	objectID, err := nullableBinaryUUID(auditLog.ObjectID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log object_id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		actorID,
		string(auditLog.Action),
		objectID,
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
// inclusive. UUIDs are stored as BINARY(16) and must be unmarshaled. Returns
// an empty slice if no audit logs match.
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	filter auditDomain.Filter,
	offset, limit int,
) ([]*auditDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, actor_id, action, object_id, message, source_address, created_at, signature
			  FROM audit_logs`

	var args []any
	var conditions []string

	if filter.Action != nil {
		args = append(args, string(*filter.Action))
		conditions = append(conditions, "action = ?")
	}
	if filter.ActorID != nil {
		actorID, err := filter.ActorID.MarshalBinary()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to marshal actor_id filter")
		}
		args = append(args, actorID)
		conditions = append(conditions, "actor_id = ?")
	}
	if filter.CreatedAtFrom != nil {
		args = append(args, *filter.CreatedAtFrom)
		conditions = append(conditions, "created_at >= ?")
	}
	if filter.CreatedAtTo != nil {
		args = append(args, *filter.CreatedAtTo)
		conditions = append(conditions, "created_at <= ?")
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}

	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() { _ = rows.Close() }()

	auditLogs := []*auditDomain.AuditLog{}
	for rows.Next() {
		var auditLog auditDomain.AuditLog
		var action string
		var idBinary, actorIDBinary, objectIDBinary []byte

		err := rows.Scan(
			&idBinary,
			&actorIDBinary,
			&action,
			&objectIDBinary,
			&auditLog.Message,
			&auditLog.SourceAddress,
			&auditLog.CreatedAt,
			&auditLog.Signature,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if err := auditLog.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
		}

		auditLog.ActorID, err = binaryUUIDPtr(actorIDBinary)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log actor_id")
		}

		auditLog.ObjectID, err = binaryUUIDPtr(objectIDBinary)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log object_id")
		}

		auditLog.Action = auditDomain.Action(action)
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
func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		query := `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`
		var count int64
		err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	query := `DELETE FROM audit_logs WHERE created_at < ?`
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

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository instance.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}
