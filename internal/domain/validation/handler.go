// Package validation provides the error-accumulation handlers used by the
// catalog aggregates. A Notification collects every problem and lets the
// caller continue; a FailFast handler aborts on the first one. The same
// validator runs unchanged against either.
package validation

// Handler receives validation errors.
type Handler interface {
	// Append records a single error. A fail-fast handler returns it as a
	// *DomainError immediately.
	Append(err Error) error

	// AppendFrom records every error accumulated by another handler.
	AppendFrom(other Handler) error

	// Validate runs op and records its failure instead of propagating it,
	// unless the handler is fail-fast.
	Validate(op func() error) error

	HasErrors() bool
	Errors() []Error
}

// Validator checks one aggregate against a handler. Validate returns a
// non-nil error only when the handler decides to abort.
type Validator interface {
	Validate() error
}

// Capture runs a fallible constructor under h. With a Notification a failed
// op yields the zero value and a nil error, and the failure is recorded in the
// notification. With a FailFast handler the failure is returned.
func Capture[T any](h Handler, op func() (T, error)) (T, error) {
	var result T
	err := h.Validate(func() error {
		v, err := op()
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
