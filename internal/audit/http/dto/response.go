// Package dto provides data transfer objects for audit log API responses.
package dto

import (
	"time"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
)

// AuditLogResponse represents an audit log entry in API responses. Actor and
// object IDs are optional: anonymous shared downloads carry no actor and
// trail-level events carry no object.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	ActorID       *string   `json:"actor_id,omitempty"`
	Action        string    `json:"action"`
	ObjectID      *string   `json:"object_id,omitempty"`
	Message       string    `json:"message"`
	SourceAddress string    `json:"source_address"`
	CreatedAt     time.Time `json:"created_at"`
	Signed        bool      `json:"signed"`
}

// MapAuditLogToResponse converts a domain audit log to an API response.
func MapAuditLogToResponse(auditLog *auditDomain.AuditLog) AuditLogResponse {
	response := AuditLogResponse{
		ID:            auditLog.ID.String(),
		Action:        string(auditLog.Action),
		Message:       auditLog.Message,
		SourceAddress: auditLog.SourceAddress,
		CreatedAt:     auditLog.CreatedAt,
		Signed:        len(auditLog.Signature) > 0,
	}

	if auditLog.ActorID != nil {
		actorID := auditLog.ActorID.String()
		response.ActorID = &actorID
	}

	if auditLog.ObjectID != nil {
		objectID := auditLog.ObjectID.String()
		response.ObjectID = &objectID
	}

	return response
}

// ListAuditLogsResponse represents a paginated list of audit logs in API responses.
type ListAuditLogsResponse struct {
	Data []AuditLogResponse `json:"data"`
}

// MapAuditLogsToListResponse converts a slice of domain audit logs to a list API response.
func MapAuditLogsToListResponse(auditLogs []*auditDomain.AuditLog) ListAuditLogsResponse {
	auditLogResponses := make([]AuditLogResponse, 0, len(auditLogs))
	for _, auditLog := range auditLogs {
		auditLogResponses = append(auditLogResponses, MapAuditLogToResponse(auditLog))
	}
	return ListAuditLogsResponse{
		Data: auditLogResponses,
	}
}
