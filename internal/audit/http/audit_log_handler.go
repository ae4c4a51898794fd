// Package http provides HTTP handlers for the audit trail.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/vault/internal/audit/domain"
	"github.com/allisson/vault/internal/audit/http/dto"
	auditUseCase "github.com/allisson/vault/internal/audit/usecase"
	apperrors "github.com/allisson/vault/internal/errors"
	"github.com/allisson/vault/internal/httputil"
	vaultHTTP "github.com/allisson/vault/internal/vault/http"
)

// AuditLogHandler handles HTTP requests for audit log operations.
type AuditLogHandler struct {
	auditLogUseCase auditUseCase.AuditLogUseCase
	logger          *slog.Logger
}

// NewAuditLogHandler creates a new audit log handler with required dependencies.
func NewAuditLogHandler(
	auditLogUseCase auditUseCase.AuditLogUseCase,
	logger *slog.Logger,
) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUseCase: auditLogUseCase,
		logger:          logger,
	}
}

// ListHandler retrieves audit logs with pagination and optional filters.
// GET /v1/audit-logs?offset=0&limit=50&action=DOWNLOAD&actor_id=<uuid>&created_at_from=2026-02-01T00:00:00Z&created_at_to=2026-02-14T23:59:59Z
// Admin only. Returns 200 OK with the audit log list ordered by created_at
// descending (newest first). Timestamps accept RFC3339 and are converted to
// UTC; both boundaries are inclusive.
func (h *AuditLogHandler) ListHandler(c *gin.Context) {
	caller, ok := vaultHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	// The audit trail is admin territory
	if !caller.IsAdmin() {
		httputil.HandleErrorGin(c, apperrors.ErrForbidden, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var filter auditDomain.Filter

	// Parse optional action query parameter
	if actionStr := c.Query("action"); actionStr != "" {
		action := auditDomain.Action(actionStr)
		if !validAction(action) {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid action: %q", actionStr),
				h.logger)
			return
		}
		filter.Action = &action
	}

	// Parse optional actor_id query parameter
	if actorStr := c.Query("actor_id"); actorStr != "" {
		actorID, err := uuid.Parse(actorStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid actor_id: must be a UUID"),
				h.logger)
			return
		}
		filter.ActorID = &actorID
	}

	// Parse optional created_at_from query parameter
	if fromStr := c.Query("created_at_from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_from format: must be RFC3339 (e.g., 2026-02-01T00:00:00Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		filter.CreatedAtFrom = &utcTime
	}

	// Parse optional created_at_to query parameter
	if toStr := c.Query("created_at_to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_to format: must be RFC3339 (e.g., 2026-02-14T23:59:59Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		filter.CreatedAtTo = &utcTime
	}

	// Validate that created_at_from is before or equal to created_at_to
	if filter.CreatedAtFrom != nil && filter.CreatedAtTo != nil && filter.CreatedAtFrom.After(*filter.CreatedAtTo) {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("created_at_from must be before or equal to created_at_to"),
			h.logger)
		return
	}

	auditLogs, err := h.auditLogUseCase.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditLogsToListResponse(auditLogs))
}

// validAction reports whether the action is one of the known audit actions.
func validAction(action auditDomain.Action) bool {
	for _, known := range auditDomain.Actions() {
		if action == known {
			return true
		}
	}
	return false
}
