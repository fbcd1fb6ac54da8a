package model

import "errors"

// ErrNotFound is returned by stores when the requested document does not exist.
var ErrNotFound = errors.New("not found")

// Identity provider failures, classified for user messaging.
var (
	ErrEmailInUse       = errors.New("email already in use")
	ErrIdentityNotFound = errors.New("user not found")
	ErrWrongPassword    = errors.New("wrong password")
	ErrWeakCredential   = errors.New("password must be at least 6 characters")
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotOwner         = errors.New("not the project owner")
)

// ValidationError carries a user-facing message for input rejected at the
// boundary, before any store or storage call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
