package domain

import (
	"github.com/allisson/vault/internal/errors"
)

// Audit trail error definitions.
var (
	// ErrSignatureInvalid indicates an audit log signature does not match its
	// content: the record was tampered with or the signing key changed.
	ErrSignatureInvalid = errors.New("audit log signature invalid")

	// ErrInvalidAction indicates an unknown action was supplied in a filter.
	ErrInvalidAction = errors.Wrap(errors.ErrInvalidInput, "invalid audit action")
)
