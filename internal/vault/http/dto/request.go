// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// ShareLinkRequest contains the parameters for issuing a share link. A zero
// or omitted TTL falls back to the server default.
type ShareLinkRequest struct {
	TTLSeconds int64 `json:"ttl_seconds"`
}

// Validate checks if the share link request is valid.
func (r *ShareLinkRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TTLSeconds,
			validation.Min(int64(0)),
		),
	)
}
