// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vault/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// DisplayName validates a caller-supplied object name. Names are presentation
// only and never become storage addresses, but path separators and control
// characters are still rejected so the name is safe to echo back in headers.
var DisplayName = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_display_name_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if len(s) > 255 {
		return validation.NewError("validation_display_name_length", "must be at most 255 characters")
	}
	if strings.ContainsAny(s, "/\\") {
		return validation.NewError("validation_display_name_separator", "must not contain path separators")
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return validation.NewError("validation_display_name_control", "must not contain control characters")
		}
	}
	return nil
})
