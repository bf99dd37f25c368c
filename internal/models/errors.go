package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError; handlers map each kind to a status code.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindConflict     ErrorKind = "CONFLICT"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindInternal     ErrorKind = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind
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

func NewNotFoundError(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "Internal server error", Err: err}
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
