package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

// KeyRing holds key material derived from the configured server secret.
//
// The encryption key is derived exactly once at construction via SHA-256 and is
// read-only for the process lifetime; signing keys for other purposes (share
// tokens, audit logs) are derived on demand via HKDF-SHA256 so that no two uses
// of the secret share key material. The ring is safe for concurrent use.
type KeyRing struct {
	secret        []byte
	encryptionKey []byte
}

// NewKeyRing derives the process-wide key material from the server secret.
// Returns an error if the secret is empty.
func NewKeyRing(serverSecret string) (*KeyRing, error) {
	if serverSecret == "" {
		return nil, cryptoDomain.ErrMissingServerSecret
	}

	encryptionKey := sha256.Sum256([]byte(serverSecret))

	return &KeyRing{
		secret:        []byte(serverSecret),
		encryptionKey: encryptionKey[:],
	}, nil
}

// EncryptionKey returns the 32-byte payload encryption key.
// Callers must not mutate the returned slice.
func (k *KeyRing) EncryptionKey() []byte {
	return k.encryptionKey
}

// DeriveSigningKey derives a 32-byte signing key for the given purpose using
// HKDF-SHA256. Purpose strings are versioned (e.g. "share-token-signing-v1")
// so a future algorithm change yields fresh key material.
func (k *KeyRing) DeriveSigningKey(purpose string) ([]byte, error) {
	reader := hkdf.New(sha256.New, k.secret, nil, []byte(purpose))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive signing key")
	}

	return signingKey, nil
}
