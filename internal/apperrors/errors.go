package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the user is not allowed to perform the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the request lacks valid authentication credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrRefreshTokenExpired indicates that the stored refresh token is no longer valid.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// ErrUnknownCategory indicates that a financial record references a category that is
// absent from the organization's taxonomy. It aborts the whole report request since it
// points to a referential-integrity problem upstream.
var ErrUnknownCategory = errors.New("unknown category")

// ErrInvalidPeriod indicates that a report was requested with a start date after its end date.
var ErrInvalidPeriod = errors.New("invalid report period")

// ErrInvalidGranularity indicates that an unsupported bucket size was requested for a
// cash flow projection.
var ErrInvalidGranularity = errors.New("invalid cash flow granularity")

// AppError carries an HTTP-ish status code together with a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError returns a described error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrNotFound)
}

// NewConflictError returns a described error that matches ErrDuplicate.
func NewConflictError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrDuplicate)
}

// NewValidationFailedError returns a described error that matches ErrValidation.
func NewValidationFailedError(message string) error {
	return fmt.Errorf("%s: %w", message, ErrValidation)
}
