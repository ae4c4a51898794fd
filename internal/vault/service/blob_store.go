package service

import (
	"context"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/vault/internal/errors"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"

	// Register blob provider drivers
	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStore implements ObjectStore on top of gocloud.dev/blob buckets.
// Supports: file://, mem://, s3://, gs://, azblob://
type BlobStore struct {
	bucket *blob.Bucket
}

// OpenBlobStore opens the bucket identified by bucketURL.
func OpenBlobStore(ctx context.Context, bucketURL string) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open blob bucket")
	}
	return &BlobStore{bucket: bucket}, nil
}

// NewBlobStore creates a BlobStore from an already opened bucket.
func NewBlobStore(bucket *blob.Bucket) *BlobStore {
	return &BlobStore{bucket: bucket}
}

// Put writes data under key, overwriting any existing blob.
func (b *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if err := b.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return apperrors.Wrapf(apperrors.ErrStorageIO, "failed to write blob %s: %v", key, err)
	}
	return nil
}

// Get reads the blob stored under key. Returns ErrPayloadMissing when the
// catalog references a blob that no longer exists.
func (b *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, vaultDomain.ErrPayloadMissing
		}
		return nil, apperrors.Wrapf(apperrors.ErrStorageIO, "failed to read blob %s: %v", key, err)
	}
	return data, nil
}

// Delete removes the blob stored under key. Returns ErrPayloadMissing when no
// blob exists, letting callers treat the removal as already done.
func (b *BlobStore) Delete(ctx context.Context, key string) error {
	if err := b.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return vaultDomain.ErrPayloadMissing
		}
		return apperrors.Wrapf(apperrors.ErrStorageIO, "failed to delete blob %s: %v", key, err)
	}
	return nil
}

// Close releases the underlying bucket resources.
func (b *BlobStore) Close() error {
	return b.bucket.Close()
}
