package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()

	data, err := id.MarshalBinary()
	require.NoError(t, err)
	return data
}

func TestMySQLObjectRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	object := newStoredObject()

	mock.ExpectExec(`INSERT INTO objects`).
		WithArgs(
			mustBinary(t, object.ID),
			object.DisplayName,
			mustBinary(t, object.StorageKey),
			mustBinary(t, object.OwnerID),
			object.Nonce,
			object.Size,
			object.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, object)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLObjectRepository_Create_StorageKeyCollision(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO objects`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(ctx, newStoredObject())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLObjectRepository_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	object := newStoredObject()
	rows := sqlmock.NewRows(objectColumns()).
		AddRow(
			mustBinary(t, object.ID),
			object.DisplayName,
			mustBinary(t, object.StorageKey),
			mustBinary(t, object.OwnerID),
			object.Nonce,
			object.Size,
			object.CreatedAt,
		)

	mock.ExpectQuery(`SELECT (.+) FROM objects\s+WHERE id = \?`).
		WithArgs(mustBinary(t, object.ID)).
		WillReturnRows(rows)

	got, err := repo.Get(ctx, object.ID)
	require.NoError(t, err)
	assert.Equal(t, object.ID, got.ID)
	assert.Equal(t, object.StorageKey, got.StorageKey)
	assert.Equal(t, object.OwnerID, got.OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLObjectRepository_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	objectID := uuid.Must(uuid.NewV7())
	mock.ExpectQuery(`SELECT (.+) FROM objects\s+WHERE id = \?`).
		WithArgs(mustBinary(t, objectID)).
		WillReturnRows(sqlmock.NewRows(objectColumns()))

	got, err := repo.Get(ctx, objectID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.Is(err, vaultDomain.ErrObjectNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLObjectRepository_ListByOwner(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	ownerID := uuid.Must(uuid.NewV7())
	id := uuid.Must(uuid.NewV7())
	rows := sqlmock.NewRows(objectColumns()).
		AddRow(mustBinary(t, id), "a.txt", mustBinary(t, uuid.Must(uuid.NewV7())), mustBinary(t, ownerID), []byte("n"), int64(10), time.Now().UTC())

	mock.ExpectQuery(`SELECT (.+) FROM objects\s+WHERE owner_id = \?\s+ORDER BY created_at DESC, id DESC\s+LIMIT \? OFFSET \?`).
		WithArgs(mustBinary(t, ownerID), 50, 0).
		WillReturnRows(rows)

	objects, err := repo.ListByOwner(ctx, ownerID, 0, 50)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, id, objects[0].ID)
	assert.Equal(t, ownerID, objects[0].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLObjectRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMySQLObjectRepository(db)
	ctx := context.Background()

	objectID := uuid.Must(uuid.NewV7())
	mock.ExpectExec(`DELETE FROM objects WHERE id = \?`).
		WithArgs(mustBinary(t, objectID)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(ctx, objectID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, vaultDomain.ErrObjectNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
