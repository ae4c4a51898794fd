// Package domain defines the audit trail domain models.
// Audit logs are append-only: nothing in the service API updates or deletes an
// existing record, and each record carries an HMAC signature making tampering
// detectable after the fact.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action describes the access decision or mutation an audit log records.
type Action string

const (
	// ActionUpload records a successful encrypted upload.
	ActionUpload Action = "UPLOAD"

	// ActionDownload records a successful decrypted download.
	ActionDownload Action = "DOWNLOAD"

	// ActionDelete records a successful secure deletion.
	ActionDelete Action = "DELETE"

	// ActionDenied records an authorization denial.
	ActionDenied Action = "DENIED"

	// ActionShareIssued records the issuance of a share link.
	ActionShareIssued Action = "SHARE_ISSUED"
)

// Actions lists every valid audit action, for filter validation.
func Actions() []Action {
	return []Action{ActionUpload, ActionDownload, ActionDelete, ActionDenied, ActionShareIssued}
}

// AuditLog records one access decision or mutating operation.
type AuditLog struct {
	ID uuid.UUID
	// ActorID is the caller identity, or nil for anonymous capability-token access.
	ActorID *uuid.UUID
	Action  Action
	// ObjectID references the object involved, or nil when the target never
	// existed (e.g. a denial on an unknown id).
	ObjectID *uuid.UUID
	// Message is a free-text outcome description.
	Message string
	// SourceAddress is the remote address the request originated from.
	SourceAddress string
	CreatedAt     time.Time
	// Signature is the HMAC-SHA256 over the record's canonical encoding.
	Signature []byte
}

// Filter narrows audit log queries. Nil fields mean no filtering; time
// boundaries are inclusive and expected in UTC.
type Filter struct {
	Action        *Action
	ActorID       *uuid.UUID
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
}
