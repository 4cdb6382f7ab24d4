// Package services implements the business logic for the farmer and
// roaster directories: input validation ahead of any store call,
// record assembly, and partial-update construction. This file defines
// the service-level error types handlers translate into HTTP responses.
package services

import "fmt"

// ValidationError reports a malformed or missing input field. It is
// always produced before the repository is called.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// invalid is shorthand for constructing a *ValidationError.
func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
