package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks input rejected before any request is sent.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthenticated indicates a missing, expired or rejected credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized indicates a valid credential without the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable covers transport failures and server errors.
	ErrUnavailable = errors.New("remote api unavailable")
	// ErrRejected is a business refusal reported by the remote API (e.g. stock).
	ErrRejected = errors.New("request rejected")
)

// Invalid builds a validation error carrying a user facing message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// ValidationError is returned by form boundaries; it matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }
