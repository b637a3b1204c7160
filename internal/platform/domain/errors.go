package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an application error independently of transport.
type ErrorCode string

const (
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInvalidState ErrorCode = "INVALID_STATE"
	CodeUnavailable  ErrorCode = "UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL"
)

// Coded is implemented by errors that carry an ErrorCode.
type Coded interface {
	error
	ErrorCode() ErrorCode
}

// Detailed is implemented by errors that expose extra fields to API clients.
type Detailed interface {
	Details() map[string]any
}

// AppError is the common error type returned by services and repositories.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error { return e.Err }

// ErrorCode returns the error classification.
func (e *AppError) ErrorCode() ErrorCode { return e.Code }

// NewValidationError reports invalid caller input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError reports a write that lost against concurrent state.
func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

// NewInvalidStateError reports a disallowed state transition.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewUnavailableError wraps a failure of an external collaborator such as
// the database.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Code: CodeUnavailable, Message: message, Err: err}
}

// CodeOf returns the code of the first coded error in the chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.ErrorCode()
	}
	return CodeInternal
}

// IsUnavailable reports whether err is a storage or broker outage.
func IsUnavailable(err error) bool {
	return err != nil && CodeOf(err) == CodeUnavailable
}
