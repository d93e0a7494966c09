package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so handlers can pick the HTTP status.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

// AppError is the error type services return to handlers. Fields carries
// per-field validation messages when the kind is KindValidation.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
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

// NewValidationError builds a 422-class error with per-field messages.
func NewValidationError(message string, fields map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// NewNotFoundError builds a 404-class error for a missing or cross-tenant resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// NewConflictError builds a 422-class error for an illegal state transition.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// NewUnavailableError builds a 501-class error for an unimplemented feature.
func NewUnavailableError() *AppError {
	return &AppError{Kind: KindUnavailable, Message: "Not implemented"}
}

// NewInternalError wraps an unexpected failure. The wrapped error is kept
// for logs; Message is what the caller sees.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// AsAppError extracts an *AppError from an error chain. Unclassified
// errors are treated as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Kind: KindInternal, Message: err.Error(), Err: err}
}

// IsNotFound reports whether err classifies as a not-found failure.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

// IsConflict reports whether err classifies as a conflict failure.
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == KindConflict
}
