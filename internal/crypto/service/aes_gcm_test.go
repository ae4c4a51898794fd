package service

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vault/internal/crypto/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

func newTestEngine(t *testing.T) *AESGCMEngine {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	engine, err := NewAESGCMEngine(key)
	require.NoError(t, err)

	return engine
}

func TestNewAESGCMEngine(t *testing.T) {
	t.Run("valid 32-byte key", func(t *testing.T) {
		engine, err := NewAESGCMEngine(make([]byte, 32))
		require.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("invalid key sizes", func(t *testing.T) {
		for _, size := range []int{0, 16, 24, 31, 33, 64} {
			engine, err := NewAESGCMEngine(make([]byte, size))
			assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
			assert.Nil(t, engine)
		}
	})
}

func TestAESGCMEngine_RoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	payloads := [][]byte{
		[]byte("hello"),
		{},
		[]byte("a"),
		bytes.Repeat([]byte{0xAB}, 1<<20),
	}

	for _, plaintext := range payloads {
		ciphertext, nonce, err := engine.Encrypt(plaintext)
		require.NoError(t, err)
		assert.Len(t, nonce, 12)
		assert.NotEqual(t, plaintext, ciphertext)

		decrypted, err := engine.Decrypt(ciphertext, nonce)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestAESGCMEngine_NonceUniqueness(t *testing.T) {
	engine := newTestEngine(t)
	plaintext := []byte("same plaintext")

	_, nonce1, err := engine.Encrypt(plaintext)
	require.NoError(t, err)
	_, nonce2, err := engine.Encrypt(plaintext)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestAESGCMEngine_Decrypt_WrongNonce(t *testing.T) {
	engine := newTestEngine(t)

	ciphertext, nonce, err := engine.Encrypt([]byte("payload"))
	require.NoError(t, err)

	wrongNonce := make([]byte, len(nonce))
	copy(wrongNonce, nonce)
	wrongNonce[0] ^= 0xFF

	plaintext, err := engine.Decrypt(ciphertext, wrongNonce)
	assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
	assert.Nil(t, plaintext)
}

func TestAESGCMEngine_Decrypt_InvalidNonceSize(t *testing.T) {
	engine := newTestEngine(t)

	ciphertext, _, err := engine.Encrypt([]byte("payload"))
	require.NoError(t, err)

	plaintext, err := engine.Decrypt(ciphertext, []byte("short"))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidNonceSize)
	assert.ErrorIs(t, err, apperrors.ErrCryptoFailure)
	assert.Nil(t, plaintext)
}

func TestAESGCMEngine_Decrypt_CorruptedCiphertext(t *testing.T) {
	engine := newTestEngine(t)

	ciphertext, nonce, err := engine.Encrypt([]byte("payload"))
	require.NoError(t, err)

	ciphertext[len(ciphertext)/2] ^= 0x01

	plaintext, err := engine.Decrypt(ciphertext, nonce)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, plaintext)
}

func TestAESGCMEngine_Decrypt_WrongKey(t *testing.T) {
	engine1 := newTestEngine(t)
	engine2 := newTestEngine(t)

	ciphertext, nonce, err := engine1.Encrypt([]byte("payload"))
	require.NoError(t, err)

	plaintext, err := engine2.Decrypt(ciphertext, nonce)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, plaintext)
}
