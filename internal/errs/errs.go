package errs

import (
	"errors"
	"fmt"
)

// ErrTicketNotFound is returned whenever a referenced ticket id does not
// resolve to a stored row, including ids of previously deleted tickets.
var ErrTicketNotFound = errors.New("ticket not found")

// ValidationError reports a client-supplied value that violates a model
// constraint. It is always raised before any storage access happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a single field.
func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
