package category

import "github.com/utafrali/catalog/internal/domain/validation"

const (
	NameMinLength = 3
	NameMaxLength = 255
)

// Validator checks a Category against a validation handler.
type Validator struct {
	category *Category
	handler  validation.Handler
}

var _ validation.Validator = (*Validator)(nil)

// NewValidator creates a validator for c reporting to h.
func NewValidator(c *Category, h validation.Handler) *Validator {
	return &Validator{category: c, handler: h}
}

// Validate runs every check. With an accumulating handler all checks run;
// a fail-fast handler stops at the first violation.
func (v *Validator) Validate() error {
	return v.checkName()
}

func (v *Validator) checkName() error {
	return validation.CheckLength(v.handler, "name", v.category.name, NameMinLength, NameMaxLength)
}
