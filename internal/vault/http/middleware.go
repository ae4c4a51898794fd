package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/allisson/vault/internal/errors"
	"github.com/allisson/vault/internal/httputil"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// Identity headers set by the upstream gateway. The gateway authenticates
// callers; this service only parses what it forwards.
const (
	ClientIDHeader   = "X-Vault-Client-Id"
	ClientRoleHeader = "X-Vault-Client-Role"
)

// IdentityMiddleware resolves the authenticated caller from the identity
// headers and stores it in the request context.
//
// The middleware:
//  1. Reads the client ID from the X-Vault-Client-Id header
//  2. Reads the role from the X-Vault-Client-Role header
//  3. Parses the ID as a UUID and the role via ParseRole
//  4. Stores the resulting Identity in the request context
//
// Unknown role strings downgrade to the user role, they never escalate.
//
// Error handling:
//   - Missing X-Vault-Client-Id header → 401 Unauthorized
//   - Malformed client ID → 401 Unauthorized
//
// Usage:
//
//	group.Use(IdentityMiddleware(logger))
//	group.GET("/objects", func(c *gin.Context) {
//	    caller, ok := GetIdentity(c.Request.Context())
//	    ...
//	})
func IdentityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader(ClientIDHeader)
		if clientID == "" {
			logger.Debug("identity resolution failed: missing client id header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		id, err := uuid.Parse(clientID)
		if err != nil {
			logger.Debug("identity resolution failed: malformed client id",
				slog.String("client_id", clientID))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		identity := vaultDomain.Identity{
			ID:   id,
			Role: vaultDomain.ParseRole(c.GetHeader(ClientRoleHeader)),
		}

		ctx := WithIdentity(c.Request.Context(), identity)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("identity resolved",
			slog.String("client_id", identity.ID.String()),
			slog.String("role", string(identity.Role)))

		c.Next()
	}
}
