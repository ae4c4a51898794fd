package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/vault/internal/database"
	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// MySQLObjectRepository implements StoredObject persistence for MySQL.
// Uses BINARY(16) for UUID storage.
type MySQLObjectRepository struct {
	db *sql.DB
}

// Create inserts a new object row into the MySQL database. Returns
// ErrConflict when the storage key collides with an existing row.
func (m *MySQLObjectRepository) Create(ctx context.Context, object *vaultDomain.StoredObject) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO objects (id, display_name, storage_key, owner_id, nonce, size, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := object.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal object id")
	}

	storageKey, err := object.StorageKey.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal object storage_key")
	}

	ownerID, err := object.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal object owner_id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		object.DisplayName,
		storageKey,
		ownerID,
		object.Nonce,
		object.Size,
		object.CreatedAt,
	)
	if err != nil {
		// Check for duplicate entry error (MySQL error number 1062)
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create object")
	}

	return nil
}

// Get retrieves an object by ID. Returns ErrObjectNotFound if no row exists.
func (m *MySQLObjectRepository) Get(ctx context.Context, objectID uuid.UUID) (*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  WHERE id = ?`

	id, err := objectID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal object id")
	}

	var object vaultDomain.StoredObject
	var idBinary, storageKeyBinary, ownerIDBinary []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBinary,
		&object.DisplayName,
		&storageKeyBinary,
		&ownerIDBinary,
		&object.Nonce,
		&object.Size,
		&object.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, vaultDomain.ErrObjectNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get object")
	}

	if err := unmarshalObjectUUIDs(&object, idBinary, storageKeyBinary, ownerIDBinary); err != nil {
		return nil, err
	}

	return &object, nil
}

// ListByOwner retrieves objects owned by ownerID ordered by created_at
// descending (newest first) with pagination. UUIDs are stored as BINARY(16)
// and must be unmarshaled.
func (m *MySQLObjectRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  WHERE owner_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	owner, err := ownerID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal owner_id")
	}

	rows, err := querier.QueryContext(ctx, query, owner, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list objects by owner")
	}

	return scanBinaryObjects(rows)
}

// ListAll retrieves every object ordered by created_at descending (newest
// first) with pagination. Intended for administrative listings.
func (m *MySQLObjectRepository) ListAll(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list objects")
	}

	return scanBinaryObjects(rows)
}

// Delete removes an object row. Returns ErrObjectNotFound when no row
// matched.
func (m *MySQLObjectRepository) Delete(ctx context.Context, objectID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM objects WHERE id = ?`

	id, err := objectID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal object id")
	}

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete object")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows count")
	}
	if affected == 0 {
		return vaultDomain.ErrObjectNotFound
	}

	return nil
}

// NewMySQLObjectRepository creates a new MySQL StoredObject repository instance.
func NewMySQLObjectRepository(db *sql.DB) *MySQLObjectRepository {
	return &MySQLObjectRepository{db: db}
}
