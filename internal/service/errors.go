package service

import "errors"

// Error taxonomy surfaced to the HTTP layer. Store and session failures wrap
// their cause; the cause is logged, never returned to clients.
var (
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrStore              = errors.New("store failure")
	ErrSession            = errors.New("session failure")
)

// ValidationError reports missing or malformed input. Message is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a *ValidationError.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}
