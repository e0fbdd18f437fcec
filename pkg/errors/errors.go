// Package errors classifies catalog failures and maps them to HTTP status
// codes. Gateways return the sentinels (or an AppError wrapping one) and the
// transport derives the response from them.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors matched with errors.Is.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("service unavailable")
	ErrTimeout       = errors.New("operation timed out")
)

// AppError is a failure with a stable code and a client-safe message.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(status int, message string, err error) *AppError {
	return &AppError{Code: Code(status), Message: message, Status: status, Err: err}
}

// NotFound reports a missing resource.
func NotFound(resource, id string) *AppError {
	return newAppError(http.StatusNotFound, fmt.Sprintf("%s with ID %s not found", resource, id), ErrNotFound)
}

// AlreadyExists reports a resource whose ID is already taken.
func AlreadyExists(resource, id string) *AppError {
	return newAppError(http.StatusConflict, fmt.Sprintf("%s with ID %s already exists", resource, id), ErrAlreadyExists)
}

// Conflict reports a request that clashes with one still in progress.
func Conflict(message string) *AppError {
	e := newAppError(http.StatusConflict, message, ErrConflict)
	e.Code = "CONFLICT"
	return e
}

// HTTPStatus returns the HTTP status code for err. Unclassified errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnprocessable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the error code written for status.
func Code(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "ALREADY_EXISTS"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case http.StatusGatewayTimeout:
		return "TIMEOUT"
	default:
		return "INTERNAL_ERROR"
	}
}
