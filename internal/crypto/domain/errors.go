// Package domain defines core domain types and errors for the encryption layer.
package domain

import (
	"github.com/allisson/vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for cryptographic failures. All errors are mapped to
// appropriate HTTP status codes by the error handling layer.
var (
	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	//
	// The engine key must be exactly 32 bytes (256 bits) for AES-256-GCM.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidNonceSize indicates the provided nonce does not match the
	// cipher's required nonce length.
	ErrInvalidNonceSize = errors.Wrap(errors.ErrCryptoFailure, "invalid nonce size")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong decryption key used
	//   - Ciphertext has been tampered with (authentication failure)
	//   - Invalid nonce provided
	//   - Corrupted encrypted data
	//
	// For security reasons, the specific cause is not disclosed to prevent
	// information leakage that could aid attackers.
	ErrDecryptionFailed = errors.Wrap(errors.ErrCryptoFailure, "decryption failed")

	// ErrMissingServerSecret indicates the server secret is not configured.
	// Key derivation cannot proceed without it.
	ErrMissingServerSecret = errors.New("server secret is not configured")
)
