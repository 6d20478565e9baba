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

// ErrConflict indicates that a mutation lost against an already-committed change,
// e.g. posting a second ledger entry for an already-classified bank transaction.
var ErrConflict = errors.New("conflicting state")

// ErrConfiguration indicates missing or invalid administrative setup,
// e.g. no bank ledger account in the configured code range. Not retryable.
var ErrConfiguration = errors.New("configuration error")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that matches errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewValidationError creates an AppError that matches errors.Is(err, ErrValidation).
func NewValidationError(message string) *AppError {
	return &AppError{Code: 400, Message: message, Err: ErrValidation}
}

// NewConflictError creates an AppError that matches errors.Is(err, ErrConflict).
func NewConflictError(message string) *AppError {
	return &AppError{Code: 409, Message: message, Err: ErrConflict}
}

// NewConfigurationError creates an AppError that matches errors.Is(err, ErrConfiguration).
func NewConfigurationError(message string) *AppError {
	return &AppError{Code: 422, Message: message, Err: ErrConfiguration}
}

// NewInternalServerError creates an AppError for unexpected failures.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: 500, Message: message, Err: ErrInternal}
}
