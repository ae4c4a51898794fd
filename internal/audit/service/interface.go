// Package service provides audit log integrity services.
package service

import (
	auditDomain "github.com/allisson/vault/internal/audit/domain"
)

// Signer produces and verifies tamper-evident audit log signatures.
type Signer interface {
	// Sign generates the HMAC signature for the audit log's canonical encoding.
	Sign(signingKey []byte, log *auditDomain.AuditLog) ([]byte, error)

	// Verify checks the audit log signature against its content.
	// Returns ErrSignatureInvalid if the record was tampered with.
	Verify(signingKey []byte, log *auditDomain.AuditLog) error
}
