// Package service provides cryptographic services for encryption at rest.
// Implements an AES-256-GCM engine with per-object random nonces and key
// derivation from a single process-wide server secret.
package service

// Engine defines the interface for authenticated payload encryption.
type Engine interface {
	// Encrypt encrypts plaintext and returns the ciphertext and the freshly
	// generated nonce. The nonce is not secret but must be stored alongside
	// the ciphertext and must never be reused with the same key.
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce. Fails when the
	// nonce length is wrong or ciphertext authentication fails.
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
}
