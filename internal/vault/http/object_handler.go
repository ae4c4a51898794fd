package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vault/internal/errors"
	"github.com/allisson/vault/internal/httputil"
	customValidation "github.com/allisson/vault/internal/validation"
	vaultDomain "github.com/allisson/vault/internal/vault/domain"
	"github.com/allisson/vault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/vault/internal/vault/usecase"
)

// uploadFormField is the multipart form field carrying the payload.
const uploadFormField = "file"

// ObjectHandler handles HTTP requests for encrypted object operations.
// It resolves the caller from the request context and delegates the full
// encrypt-store-audit pipeline to the VaultUseCase.
type ObjectHandler struct {
	vaultUseCase  vaultUseCase.VaultUseCase
	maxUploadSize int64
	logger        *slog.Logger
}

// NewObjectHandler creates a new object handler with required dependencies.
func NewObjectHandler(
	useCase vaultUseCase.VaultUseCase,
	maxUploadSize int64,
	logger *slog.Logger,
) *ObjectHandler {
	return &ObjectHandler{
		vaultUseCase:  useCase,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// UploadHandler encrypts and stores an uploaded payload.
// POST /v1/objects - multipart form with a "file" field.
// Returns 201 Created with the object descriptor (never the storage key).
func (h *ObjectHandler) UploadHandler(c *gin.Context) {
	caller, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	// Bound the request body before touching the multipart reader
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	fileHeader, err := c.FormFile(uploadFormField)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("missing or invalid %q form field: %w", uploadFormField, err),
			h.logger,
		)
		return
	}

	displayName := sanitizeDisplayName(fileHeader.Filename)
	if err := validation.Validate(displayName, customValidation.DisplayName); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("failed to open uploaded file: %w", err),
			h.logger,
		)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("failed to read uploaded file: %w", err),
			h.logger,
		)
		return
	}

	object, err := h.vaultUseCase.Upload(c.Request.Context(), caller, &vaultUseCase.UploadInput{
		DisplayName:   displayName,
		Payload:       payload,
		SourceAddress: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapObjectToResponse(object))
}

// ListHandler retrieves the catalog rows visible to the caller.
// GET /v1/objects?offset=0&limit=50 - users see owned objects, admins see all.
// Returns 200 OK with object metadata only.
func (h *ObjectHandler) ListHandler(c *gin.Context) {
	caller, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	objects, err := h.vaultUseCase.List(c.Request.Context(), caller, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapObjectsToListResponse(objects))
}

// DownloadHandler decrypts and streams an object's payload.
// GET /v1/objects/:id - owner or admin only.
// Returns 200 OK as an attachment named after the stored display name.
func (h *ObjectHandler) DownloadHandler(c *gin.Context) {
	caller, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	objectID, err := parseObjectID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	output, err := h.vaultUseCase.Download(c.Request.Context(), caller, objectID, c.ClientIP())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	writeAttachment(c, output.Object, output.Plaintext)
}

// DeleteHandler removes an object's catalog row and ciphertext.
// DELETE /v1/objects/:id - owner or admin only.
// Returns 204 No Content.
func (h *ObjectHandler) DeleteHandler(c *gin.Context) {
	caller, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	objectID, err := parseObjectID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.vaultUseCase.Delete(c.Request.Context(), caller, objectID, c.ClientIP()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// ShareHandler mints a time-limited share token for an object.
// POST /v1/objects/:id/share - owner or admin only. Body: {"ttl_seconds": N}.
// Returns 201 Created with the token and its absolute expiry.
func (h *ObjectHandler) ShareHandler(c *gin.Context) {
	caller, ok := GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	objectID, err := parseObjectID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.ShareLinkRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	output, err := h.vaultUseCase.IssueShareLink(c.Request.Context(), caller, objectID, ttl, c.ClientIP())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ShareLinkResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
	})
}

// SharedDownloadHandler redeems a share token and streams the payload.
// GET /v1/shared/:token - anonymous; the token is the only credential.
// Returns 200 OK as an attachment named after the stored display name.
func (h *ObjectHandler) SharedDownloadHandler(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		httputil.HandleErrorGin(c, apperrors.ErrTokenInvalid, h.logger)
		return
	}

	output, err := h.vaultUseCase.SharedDownload(c.Request.Context(), token, c.ClientIP())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	writeAttachment(c, output.Object, output.Plaintext)
}

// parseObjectID extracts and parses the :id path parameter.
func parseObjectID(c *gin.Context) (uuid.UUID, error) {
	objectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid object id: must be a UUID")
	}
	return objectID, nil
}

// writeAttachment streams a decrypted payload as a file attachment. The
// filename is quoted and stripped of characters that could break the header.
func writeAttachment(c *gin.Context, object *vaultDomain.StoredObject, plaintext []byte) {
	filename := object.DisplayName
	if filename == "" {
		filename = object.ID.String()
	}
	filename = strings.NewReplacer("\"", "", "\r", "", "\n", "").Replace(filename)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", plaintext)
}

// sanitizeDisplayName strips any path components from an uploaded filename.
// Browsers may send full paths; only the base name is kept.
func sanitizeDisplayName(name string) string {
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
