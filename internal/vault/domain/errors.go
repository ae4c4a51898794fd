package domain

import (
	"github.com/allisson/vault/internal/errors"
)

// Vault domain error definitions.
var (
	// ErrObjectNotFound indicates the object does not exist in the catalog.
	ErrObjectNotFound = errors.Wrap(errors.ErrNotFound, "object not found")

	// ErrPayloadMissing indicates an object's ciphertext is absent from the
	// blob store.
	ErrPayloadMissing = errors.Wrap(errors.ErrNotFound, "encrypted payload missing")

	// ErrEmptyPayload indicates an upload carried no payload bytes.
	ErrEmptyPayload = errors.Wrap(errors.ErrInvalidInput, "payload is empty")

	// ErrAccessDenied indicates the caller is neither the owner nor an admin.
	ErrAccessDenied = errors.Wrap(errors.ErrForbidden, "access denied")
)
