package validation

import "fmt"

// Notification accumulates errors and never aborts.
type Notification struct {
	errs []Error
}

var _ Handler = (*Notification)(nil)

// NewNotification creates an empty notification.
func NewNotification() *Notification {
	return &Notification{errs: []Error{}}
}

// NotificationOf creates a notification seeded with the message of err.
func NotificationOf(err error) *Notification {
	n := NewNotification()
	_ = n.Append(NewError(err.Error()))
	return n
}

func (n *Notification) Append(err Error) error {
	n.errs = append(n.errs, err)
	return nil
}

func (n *Notification) AppendFrom(other Handler) error {
	n.errs = append(n.errs, other.Errors()...)
	return nil
}

// Validate runs op. A *DomainError contributes all of its messages, any other
// error or panic contributes its text as one message.
func (n *Notification) Validate(op func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			n.errs = append(n.errs, NewError(fmt.Sprint(r)))
			err = nil
		}
	}()

	if opErr := op(); opErr != nil {
		if domainErr, ok := AsDomainError(opErr); ok {
			n.errs = append(n.errs, domainErr.errs...)
		} else {
			n.errs = append(n.errs, NewError(opErr.Error()))
		}
	}
	return nil
}

func (n *Notification) HasErrors() bool {
	return len(n.errs) > 0
}

// Errors returns a copy of the accumulated errors in insertion order.
func (n *Notification) Errors() []Error {
	return append([]Error(nil), n.errs...)
}

// Err returns the accumulated errors as a *DomainError, or nil when empty.
func (n *Notification) Err() error {
	if !n.HasErrors() {
		return nil
	}
	return FromHandler(n)
}
