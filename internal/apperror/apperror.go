package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("Validation Error")
	ErrUpstream   = errors.New("upstream failure")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundMessage is like NotFound but with a caller-supplied message, for
// responses where the exact wording is part of the API contract rather than
// a generated "<resource> not found" string.
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Upstream returns an AppError for a failed call to an external provider
// (the model gateway or the real-time messaging service). HTTP handlers map
// this to 500 like any other server-side failure, but the distinct error
// type lets logs and clients tell provider failures apart from our own bugs
// or database errors.
func Upstream(provider, message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: fmt.Sprintf("%s: %s", provider, message),
	}
}

// Internal returns an AppError for a server-side failure with a fixed
// client-facing message. The underlying error stays in the wrap chain for
// logs; the raw cause never reaches the client.
func Internal(message string, err error) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
	}
}
