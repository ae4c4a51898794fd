package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

func newMemBlobStore(t *testing.T) *BlobStore {
	t.Helper()

	store, err := OpenBlobStore(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestBlobStore_PutAndGet(t *testing.T) {
	store := newMemBlobStore(t)
	ctx := context.Background()

	key := "user_a/object-1"
	data := []byte("ciphertext bytes")

	err := store.Put(ctx, key, data)
	require.NoError(t, err)

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestBlobStore_Put_Overwrites(t *testing.T) {
	store := newMemBlobStore(t)
	ctx := context.Background()

	key := "user_a/object-1"
	require.NoError(t, store.Put(ctx, key, []byte("first")))
	require.NoError(t, store.Put(ctx, key, []byte("second")))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestBlobStore_Get_Missing(t *testing.T) {
	store := newMemBlobStore(t)

	got, err := store.Get(context.Background(), "user_a/missing")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, apperrors.Is(err, vaultDomain.ErrPayloadMissing))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestBlobStore_Delete(t *testing.T) {
	store := newMemBlobStore(t)
	ctx := context.Background()

	key := "user_a/object-1"
	require.NoError(t, store.Put(ctx, key, []byte("data")))
	require.NoError(t, store.Delete(ctx, key))

	_, err := store.Get(ctx, key)
	assert.True(t, apperrors.Is(err, vaultDomain.ErrPayloadMissing))
}

func TestBlobStore_Delete_Missing(t *testing.T) {
	store := newMemBlobStore(t)

	err := store.Delete(context.Background(), "user_a/missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, vaultDomain.ErrPayloadMissing))
}

func TestOpenBlobStore_InvalidURL(t *testing.T) {
	store, err := OpenBlobStore(context.Background(), "bogus://nope")
	require.Error(t, err)
	assert.Nil(t, store)
}
