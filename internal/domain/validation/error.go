package validation

import (
	"errors"
	"strings"

	apperrors "github.com/utafrali/catalog/pkg/errors"
)

// Error is a single user-facing validation message.
type Error struct {
	Message string `json:"message"`
}

// NewError creates a validation message.
func NewError(message string) Error {
	return Error{Message: message}
}

// DomainError carries one or more validation messages out of the domain.
// It unwraps to apperrors.ErrUnprocessable, or to apperrors.ErrNotFound when
// built with NotFound, so transports can classify it with errors.Is.
type DomainError struct {
	errs []Error
	kind error
}

// NewDomainError builds a validation failure from the given messages.
func NewDomainError(errs ...Error) *DomainError {
	return &DomainError{errs: append([]Error(nil), errs...), kind: apperrors.ErrUnprocessable}
}

// NotFound builds a failure for a missing aggregate.
func NotFound(message string) *DomainError {
	return &DomainError{errs: []Error{NewError(message)}, kind: apperrors.ErrNotFound}
}

// FromHandler converts the accumulated errors of a handler into a DomainError.
func FromHandler(h Handler) *DomainError {
	return NewDomainError(h.Errors()...)
}

func (e *DomainError) Error() string {
	return strings.Join(e.Messages(), "; ")
}

func (e *DomainError) Unwrap() error {
	return e.kind
}

// Errors returns a copy of the carried messages in the order they were recorded.
func (e *DomainError) Errors() []Error {
	return append([]Error(nil), e.errs...)
}

// Messages returns the carried messages as plain strings.
func (e *DomainError) Messages() []string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Message)
	}
	return msgs
}

// IsNotFound reports whether the error describes a missing aggregate.
func (e *DomainError) IsNotFound() bool {
	return errors.Is(e.kind, apperrors.ErrNotFound)
}

// AsDomainError unwraps err into a DomainError if it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
