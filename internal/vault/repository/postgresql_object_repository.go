// Package repository implements data persistence for the object catalog.
// Repositories support both PostgreSQL and MySQL; payload bytes never pass
// through here, only catalog rows (names, owners, nonces, sizes).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/vault/internal/database"
	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// PostgreSQLObjectRepository implements StoredObject persistence for PostgreSQL.
type PostgreSQLObjectRepository struct {
	db *sql.DB
}

// Create inserts a new object row into the PostgreSQL database. Returns
// ErrConflict when the storage key collides with an existing row.
func (p *PostgreSQLObjectRepository) Create(ctx context.Context, object *vaultDomain.StoredObject) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO objects (id, display_name, storage_key, owner_id, nonce, size, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		object.ID,
		object.DisplayName,
		object.StorageKey,
		object.OwnerID,
		object.Nonce,
		object.Size,
		object.CreatedAt,
	)
	if err != nil {
		// Unique violation (storage_key collision)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create object")
	}

	return nil
}

// Get retrieves an object by ID. Returns ErrObjectNotFound if no row exists.
func (p *PostgreSQLObjectRepository) Get(ctx context.Context, objectID uuid.UUID) (*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  WHERE id = $1`

	var object vaultDomain.StoredObject
	err := querier.QueryRowContext(ctx, query, objectID).Scan(
		&object.ID,
		&object.DisplayName,
		&object.StorageKey,
		&object.OwnerID,
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

	return &object, nil
}

// ListByOwner retrieves objects owned by ownerID ordered by created_at
// descending (newest first) with pagination. Returns an empty slice when the
// owner has no objects.
func (p *PostgreSQLObjectRepository) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  WHERE owner_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list objects by owner")
	}

	return scanObjects(rows)
}

// ListAll retrieves every object ordered by created_at descending (newest
// first) with pagination. Intended for administrative listings.
func (p *PostgreSQLObjectRepository) ListAll(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.StoredObject, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, display_name, storage_key, owner_id, nonce, size, created_at
			  FROM objects
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list objects")
	}

	return scanObjects(rows)
}

// Delete removes an object row. Returns ErrObjectNotFound when no row
// matched.
func (p *PostgreSQLObjectRepository) Delete(ctx context.Context, objectID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM objects WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, objectID)
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

// NewPostgreSQLObjectRepository creates a new PostgreSQL StoredObject repository instance.
func NewPostgreSQLObjectRepository(db *sql.DB) *PostgreSQLObjectRepository {
	return &PostgreSQLObjectRepository{db: db}
}
