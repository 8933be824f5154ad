// Package apperror defines a centralized system for application-specific errors.
// Every failure a handler can encounter is classified here, so that the web layer
// can convert it into the right user-visible flash message and HTTP status in one
// place instead of scattering string matching through the handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the type of application error
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// ValidationError represents an input validation error (e.g. wrong uploaded filename)
	ValidationError
	// AuthRequiredError represents a missing or expired session
	AuthRequiredError
	// NotFoundError represents a missing user or file
	NotFoundError
	// PersistenceError represents an error originating from the database
	PersistenceError
	// IOError represents a file read/write failure
	IOError
	// ConfigError represents an error related to application configuration
	ConfigError
	// MigrationError represents an error during database migrations
	MigrationError
	// InternalError represents a generic internal server error
	InternalError
)

// AppError is a custom error type for the application.
// It carries a user-facing message and optionally wraps an underlying error
// which is intended for logs only, never for rendering.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error, allowing `errors.Is` and `errors.As`
// to inspect the chain of wrapped errors.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
// The web layer rarely uses these directly (failures become flashes plus a
// redirect or re-render), but they are the right codes for anything that
// does escape to a bare HTTP response.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case AuthRequiredError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case PersistenceError, IOError, ConfigError, MigrationError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor, useful when
// the error type is determined dynamically.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types.
// These provide a more readable and type-safe way to create common `AppError` types.

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewAuthRequiredError creates a new AuthRequiredError
func NewAuthRequiredError(message string, underlyingError error) *AppError {
	return NewAppError(AuthRequiredError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(message string, underlyingError error) *AppError {
	return NewAppError(PersistenceError, message, underlyingError)
}

// NewIOError creates a new IOError
func NewIOError(message string, underlyingError error) *AppError {
	return NewAppError(IOError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types.
// These use `errors.As` so they keep working when errors are wrapped.

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthRequired checks if an error is an AuthRequired error
func IsAuthRequired(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthRequiredError
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsPersistenceError checks if an error is a Persistence error
func IsPersistenceError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == PersistenceError
}
