package model

import "fmt"

// ValidationError reports that a struct field failed an invariant check.
// It mirrors the donor SDK's ValidationError shape so callers can use the
// same errors.As pattern across packages.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("model: field %s: %s", e.Field, e.Message)
}

func fieldError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
