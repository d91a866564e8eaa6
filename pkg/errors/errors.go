package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the client. Each failure a caller can see maps to
// exactly one of these.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeServerRejected  = "SERVER_REJECTED"
	CodeTransport       = "TRANSPORT"
	CodeInvalidResponse = "INVALID_RESPONSE"
	CodeValidation      = "VALIDATION_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Unauthenticated is raised client-side when no bearer credential is stored;
// no request is issued in that case.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// ServerRejected wraps a non-2xx backend response. status is the HTTP status
// the server answered with; message is the server-supplied message when the
// body carried one.
func ServerRejected(message string, status int) *AppError {
	if message == "" {
		message = "Request failed"
	}
	return &AppError{
		Code:    CodeServerRejected,
		Message: message,
		Status:  status,
	}
}

// Transport wraps a network-level failure (dial, timeout, broken connection).
func Transport(message string, err error) *AppError {
	return &AppError{
		Code:    CodeTransport,
		Message: message,
		Status:  0,
		Err:     err,
	}
}

// InvalidResponse marks a 2xx response whose body does not match the
// documented envelope for its endpoint.
func InvalidResponse(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidResponse,
		Message: message,
		Status:  http.StatusOK,
		Err:     err,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// MessageOf returns the human-readable message of an AppError, or the raw
// error text for anything else. Usecases store this in their local state.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
