package validation

import "fmt"

// FailFast aborts on the first error by returning it as a *DomainError.
type FailFast struct{}

var _ Handler = FailFast{}

func (FailFast) Append(err Error) error {
	return NewDomainError(err)
}

func (FailFast) AppendFrom(other Handler) error {
	if !other.HasErrors() {
		return nil
	}
	return FromHandler(other)
}

// Validate returns a failing op's *DomainError unchanged and wraps any other
// error's message, or a panic's value, into one.
func (FailFast) Validate(op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewDomainError(NewError(fmt.Sprint(r)))
		}
	}()

	err = op()
	if err == nil {
		return nil
	}
	if domainErr, ok := AsDomainError(err); ok {
		return domainErr
	}
	return NewDomainError(NewError(err.Error()))
}

func (FailFast) HasErrors() bool {
	return false
}

func (FailFast) Errors() []Error {
	return []Error{}
}
