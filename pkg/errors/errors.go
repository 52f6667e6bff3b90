package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so wrapped and cloned instances compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// The closed set of domain errors. Every error crossing the HTTP boundary
// maps to exactly one of these.
var (
	ErrUserNotFound     = New("USER_NOT_FOUND", http.StatusNotFound, "user not found")
	ErrBadCredentials   = New("BAD_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrBadRefreshToken  = New("BAD_REFRESH_TOKEN", http.StatusUnauthorized, "refresh token does not match")
	ErrSessionNotFound  = New("SESSION_NOT_FOUND", http.StatusUnauthorized, "session not found or revoked")
	ErrInvalidToken     = New("INVALID_TOKEN", http.StatusUnauthorized, "access token is invalid")
	ErrEmailInUse       = New("EMAIL_IN_USE", http.StatusBadRequest, "email already in use")
	ErrInvalidResetCode = New("INVALID_RESET_CODE", http.StatusUnauthorized, "redefine password code is invalid")
	ErrStoreUnavailable = New("STORE_UNAVAILABLE", http.StatusServiceUnavailable, "session store unavailable")
	ErrNotFound         = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized     = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation       = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
