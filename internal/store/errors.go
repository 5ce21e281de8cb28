package store

import (
	"errors"
	"fmt"
)

// Error is a storage-level error carrying an HTTP-compatible status code so
// handlers higher up can translate it without inspecting driver internals.
type Error struct {
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Sentinel errors for common storage outcomes.
var (
	ErrNotFound      = &Error{Code: 404, Message: "not found"}
	ErrAlreadyExists = &Error{Code: 409, Message: "already exists"}
	ErrInvalidInput  = &Error{Code: 400, Message: "invalid input"}
)

// NewError creates a storage error with the given code and message.
func NewError(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFoundError creates a not-found error for the named entity.
func NotFoundError(entity string) *Error {
	return &Error{Code: 404, Message: fmt.Sprintf("%s not found", entity)}
}

// AlreadyExistsError creates a conflict error for the named entity.
func AlreadyExistsError(entity string) *Error {
	return &Error{Code: 409, Message: fmt.Sprintf("%s already exists", entity)}
}

// InternalError wraps an unexpected storage failure.
func InternalError(message string, err error) *Error {
	return &Error{Code: 500, Message: message, Err: err}
}

// IsNotFound reports whether err is a not-found storage error.
func IsNotFound(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == 404
	}
	return false
}

// IsAlreadyExists reports whether err is a conflict storage error.
func IsAlreadyExists(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code == 409
	}
	return false
}
