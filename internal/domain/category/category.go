// Package category holds the Category aggregate: a catalog entry that can be
// deactivated and reactivated, with soft-delete timestamps.
package category

import (
	"time"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/domain/validation"
)

// ID identifies a Category.
type ID string

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(domain.NewIdentifier())
}

func (id ID) Value() string {
	return string(id)
}

// IDs converts raw identifier strings, keeping order and duplicates.
func IDs(values []string) []ID {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		ids = append(ids, ID(v))
	}
	return ids
}

// Strings converts identifiers back to raw strings.
func Strings(ids []ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Value())
	}
	return out
}

// Category is an immutable value. Every mutator returns a new Category and
// leaves the receiver untouched.
type Category struct {
	domain.AggregateRoot[ID]

	name        *string
	description string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

var _ domain.Validatable = (*Category)(nil)

// New creates a Category with a fresh ID. An inactive category is created
// already soft-deleted. The result is not validated; call Validate.
func New(name *string, description string, active bool) *Category {
	now := domain.Now()
	c := &Category{
		AggregateRoot: domain.NewAggregateRoot(NewID()),
		name:          copyString(name),
		description:   description,
		active:        active,
		createdAt:     now,
		updatedAt:     now,
	}
	if !active {
		c.deletedAt = &now
	}
	return c
}

// With reconstructs a Category from stored state.
func With(id ID, name, description string, active bool, createdAt, updatedAt time.Time, deletedAt *time.Time) *Category {
	return &Category{
		AggregateRoot: domain.NewAggregateRoot(id),
		name:          &name,
		description:   description,
		active:        active,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     copyTime(deletedAt),
	}
}

// Clone returns an independent copy.
func (c *Category) Clone() *Category {
	cp := *c
	cp.name = copyString(c.name)
	cp.deletedAt = copyTime(c.deletedAt)
	return &cp
}

// Activate returns an active copy with the soft-delete mark cleared.
func (c *Category) Activate() *Category {
	cp := c.Clone()
	cp.active = true
	cp.deletedAt = nil
	cp.updatedAt = domain.Touch(c.updatedAt)
	return cp
}

// Deactivate returns an inactive copy. An existing soft-delete instant is
// kept.
func (c *Category) Deactivate() *Category {
	cp := c.Clone()
	now := domain.Touch(c.updatedAt)
	if cp.deletedAt == nil {
		cp.deletedAt = &now
	}
	cp.active = false
	cp.updatedAt = now
	return cp
}

// Update returns a copy with the given attributes. The result is not
// validated; call Validate.
func (c *Category) Update(name *string, description string, active bool) *Category {
	var cp *Category
	if active {
		cp = c.Activate()
	} else {
		cp = c.Deactivate()
	}
	cp.name = copyString(name)
	cp.description = description
	return cp
}

// Validate reports every constraint violation to h.
func (c *Category) Validate(h validation.Handler) error {
	return NewValidator(c, h).Validate()
}

// Name returns the name, or "" when it was never set.
func (c *Category) Name() string {
	if c.name == nil {
		return ""
	}
	return *c.name
}

func (c *Category) Description() string { return c.description }
func (c *Category) IsActive() bool { return c.active }
func (c *Category) CreatedAt() time.Time { return c.createdAt }
func (c *Category) UpdatedAt() time.Time { return c.updatedAt }
func (c *Category) DeletedAt() *time.Time { return copyTime(c.deletedAt) }

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
