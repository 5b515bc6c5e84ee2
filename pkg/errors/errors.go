package errors

import (
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrInvalidCredentials = NewUnauthorizedError("invalid credentials")
	ErrTokenMissing       = NewUnauthorizedError("token missing")
	ErrTokenInvalid       = NewForbiddenError("invalid token")
	ErrUserNotFound       = NewNotFoundError("user", "user not found")
	ErrUserExists         = NewAlreadyExistsError("user", "user exists")
)

// HTTPStatuser is implemented by errors that map to an HTTP status code.
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status code for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status code for this error.
// Duplicate signups answer 400 rather than 409; clients treat any
// signup rejection as a bad request.
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// UnauthorizedError represents a failed authentication attempt
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for this error
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// ForbiddenError represents a rejected credential, such as a tampered
// or expired bearer token
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for this error
func (e *ForbiddenError) HTTPStatus() int {
	return http.StatusForbidden
}

// UpstreamError represents a failure of an external provider call
type UpstreamError struct {
	Message string
	Err     error
}

// NewUpstreamError creates a new upstream error
func NewUpstreamError(message string, err error) *UpstreamError {
	return &UpstreamError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *UpstreamError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Status resolves the HTTP status code for an arbitrary error,
// defaulting to 500 when the error carries no status of its own.
func Status(err error) int {
	if st, ok := err.(HTTPStatuser); ok {
		return st.HTTPStatus()
	}
	return http.StatusInternalServerError
}
