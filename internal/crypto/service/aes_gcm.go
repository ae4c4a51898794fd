package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

// AESGCMEngine implements the Engine interface using AES-256-GCM.
//
// AES-GCM provides authenticated encryption: decryption fails loudly when the
// ciphertext or nonce has been altered instead of returning garbage bytes.
// The engine is stateless after construction and safe for concurrent use from
// multiple goroutines; each Encrypt call generates an independent 12-byte
// nonce from crypto/rand.
type AESGCMEngine struct {
	aead cipher.AEAD
}

// NewAESGCMEngine creates a new AES-256-GCM engine.
// The key must be exactly 32 bytes (256 bits).
func NewAESGCMEngine(key []byte) (*AESGCMEngine, error) {
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create AES cipher")
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create GCM")
	}

	return &AESGCMEngine{aead: aead}, nil
}

// Encrypt encrypts plaintext and returns the ciphertext with its authentication
// tag appended, plus the randomly generated nonce used for this operation.
// The nonce must be stored alongside the ciphertext for later decryption.
func (e *AESGCMEngine) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to generate nonce")
	}

	ciphertext = e.aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt decrypts ciphertext using the provided nonce. The authentication tag
// is verified before any plaintext is returned; a wrong nonce, wrong key, or
// modified ciphertext yields ErrDecryptionFailed, never wrong bytes.
func (e *AESGCMEngine) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != e.aead.NonceSize() {
		return nil, cryptoDomain.ErrInvalidNonceSize
	}

	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}
