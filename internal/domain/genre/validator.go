package genre

import "github.com/utafrali/catalog/internal/domain/validation"

const (
	NameMinLength = 3
	NameMaxLength = 255
)

// Validator checks Genre attributes against a validation handler. It works
// on raw attributes so construction can validate before a Genre exists.
type Validator struct {
	name    *string
	handler validation.Handler
}

var _ validation.Validator = (*Validator)(nil)

// NewValidator creates a validator for a genre name reporting to h.
func NewValidator(name *string, h validation.Handler) *Validator {
	return &Validator{name: name, handler: h}
}

func (v *Validator) Validate() error {
	return v.checkName()
}

func (v *Validator) checkName() error {
	return validation.CheckLength(v.handler, "name", v.name, NameMinLength, NameMaxLength)
}
