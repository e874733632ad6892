package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Volunteer errors
var (
	ErrVolunteerNotFound = errors.New("volunteer not found")
)

// Subject errors
var (
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrSubjectAlreadyExists = errors.New("subject with this name already exists")
)

// Pairing errors
var (
	ErrPairingNotFound      = errors.New("pairing not found")
	ErrPairingAlreadyActive = errors.New("student already has an active pairing")
)

// User profile errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameExists     = errors.New("username already exists")
	ErrProfileHasNoMirror = errors.New("user profile is not linked to a volunteer")
)

// Geocoding errors
var (
	ErrAddressMissing = errors.New("record has no address to geocode")
)

// CustomError wraps a sentinel error with a human readable message.
type CustomError struct {
	Err     error
	Message string
}

// Error returns the custom message, or the wrapped error's text.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped sentinel for errors.Is.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches err or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
