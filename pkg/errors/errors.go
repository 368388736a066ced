package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error and maps it to an HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInvalidState
	KindInternal
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// StatusCode returns the HTTP status for the error kind.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func Authentication(message string) *AppError {
	return &AppError{Kind: KindAuthentication, Message: message}
}

func Authorization(message string) *AppError {
	return &AppError{Kind: KindAuthorization, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

// Internal wraps an unexpected failure. The wrapped cause is logged
// server-side and never serialized to the caller.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// From extracts an AppError from err, or wraps it as Internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
