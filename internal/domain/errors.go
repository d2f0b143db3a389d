package domain

import "fmt"

// ErrorCode classifies a domain error for transport-layer mapping.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeStorage      ErrorCode = "STORAGE_FAILURE"
)

// Error is a typed domain error carrying a classification code.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewNotFoundError creates a not-found error for an entity and identifier.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewConflictError creates a conflict error with the given message.
func NewConflictError(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// NewUnauthorizedError creates an unauthorized error with the given message.
func NewUnauthorizedError(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// NewStorageError wraps a storage-layer failure. The cause is propagated
// unchanged so callers can inspect it; no retry is attempted here.
func NewStorageError(op string, cause error) *Error {
	return &Error{
		Code:    CodeStorage,
		Message: fmt.Sprintf("storage failure during %s: %v", op, cause),
		cause:   cause,
	}
}
