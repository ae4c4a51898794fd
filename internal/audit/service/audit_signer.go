package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	apperrors "github.com/allisson/vault/internal/errors"
)

type auditSigner struct{}

// NewAuditSigner creates an HMAC-SHA256 audit log signer. The signing key is
// derived by the caller (KeyRing, purpose "audit-log-signing-v1") so signature
// key material never overlaps with the payload encryption key.
func NewAuditSigner() Signer {
	return &auditSigner{}
}

// canonicalizeLog converts an audit log to its canonical byte representation.
// Format: id || actor_id || action || object_id || message || source_address || created_at.
// Nullable UUIDs encode as a presence byte followed by the 16 raw bytes when
// present; variable-length fields are length-prefixed to prevent ambiguity.
func (a *auditSigner) canonicalizeLog(log *auditDomain.AuditLog) []byte {
	// Typical record is well under 512 bytes.
	buf := make([]byte, 0, 512)

	buf = append(buf, log.ID[:]...)
	buf = appendOptionalUUID(buf, log.ActorID)
	buf = appendLengthPrefixed(buf, []byte(string(log.Action)))
	buf = appendOptionalUUID(buf, log.ObjectID)
	buf = appendLengthPrefixed(buf, []byte(log.Message))
	buf = appendLengthPrefixed(buf, []byte(log.SourceAddress))

	// Timestamp at microsecond precision, matching the column precision of
	// both drivers (TIMESTAMPTZ, DATETIME(6)). Sub-microsecond digits would
	// not survive a database round-trip and must not affect the signature.
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(log.CreatedAt.UnixMicro()))
	buf = append(buf, timeBytes...)

	return buf
}

// appendOptionalUUID encodes a nullable UUID as a presence byte plus raw bytes.
func appendOptionalUUID(buf []byte, id *uuid.UUID) []byte {
	if id == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	return append(buf, id[:]...)
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
// Panics if data length exceeds uint32 max to prevent integer overflow.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the audit log.
func (a *auditSigner) Sign(signingKey []byte, log *auditDomain.AuditLog) ([]byte, error) {
	if len(signingKey) == 0 {
		return nil, apperrors.New("signing key is empty")
	}

	canonical := a.canonicalizeLog(log)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks if the audit log signature is valid.
// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
func (a *auditSigner) Verify(signingKey []byte, log *auditDomain.AuditLog) error {
	expectedSig, err := a.Sign(signingKey, log)
	if err != nil {
		return apperrors.Wrap(err, "failed to compute expected signature")
	}

	if !hmac.Equal(log.Signature, expectedSig) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}
