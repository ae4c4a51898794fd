// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	vaultDomain "github.com/allisson/vault/internal/vault/domain"
)

// ObjectResponse represents a stored object in API responses. Only catalog
// metadata is exposed: storage keys and nonces never leave the server.
type ObjectResponse struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	OwnerID     string    `json:"owner_id"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapObjectToResponse converts a domain object to an API response.
func MapObjectToResponse(object *vaultDomain.StoredObject) ObjectResponse {
	return ObjectResponse{
		ID:          object.ID.String(),
		DisplayName: object.DisplayName,
		OwnerID:     object.OwnerID.String(),
		Size:        object.Size,
		CreatedAt:   object.CreatedAt,
	}
}

// ListObjectsResponse represents a paginated list of stored objects.
type ListObjectsResponse struct {
	Data []ObjectResponse `json:"data"`
}

// MapObjectsToListResponse converts a slice of domain objects to a list response.
func MapObjectsToListResponse(objects []*vaultDomain.StoredObject) ListObjectsResponse {
	data := make([]ObjectResponse, 0, len(objects))
	for _, object := range objects {
		data = append(data, MapObjectToResponse(object))
	}

	return ListObjectsResponse{
		Data: data,
	}
}

// ShareLinkResponse represents a freshly issued share link.
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
