package apperrors

import (
	"errors"

	"gorm.io/gorm"
)

// FromStore translates a gorm error for the named resource: missing rows
// become NotFound, unique violations Conflict, anything else Internal.
// Errors that already carry a Kind pass through unchanged.
func FromStore(err error, resource string) error {
	if err == nil {
		return nil
	}
	var e *Error
	switch {
	case errors.As(err, &e):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("%s already exists", resource)
	default:
		return Internal(err, "%s store failure", resource)
	}
}
