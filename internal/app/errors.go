package app

import "fmt"

// ValidationError reports missing, malformed or out-of-domain caller input.
// It is always surfaced to the caller, never silently corrected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
