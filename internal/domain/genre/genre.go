// Package genre holds the Genre aggregate. A Genre references categories by
// ID only; whether those categories exist is checked by the use cases.
package genre

import (
	"time"

	"github.com/utafrali/catalog/internal/domain"
	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/validation"
)

// ID identifies a Genre.
type ID string

// NewID returns a fresh random ID.
func NewID() ID {
	return ID(domain.NewIdentifier())
}

func (id ID) Value() string {
	return string(id)
}

// Genre is an immutable value that is valid by construction: New, With and
// Update refuse to return an invalid Genre. The category list keeps
// insertion order and may hold duplicates.
type Genre struct {
	domain.AggregateRoot[ID]

	name       string
	active     bool
	categories []category.ID
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  *time.Time
}

var _ domain.Validatable = (*Genre)(nil)

// New creates a Genre with a fresh ID and no categories. It returns a
// *validation.DomainError carrying every violation when name is invalid.
func New(name *string, active bool) (*Genre, error) {
	now := domain.Now()
	g := &Genre{
		AggregateRoot: domain.NewAggregateRoot(NewID()),
		active:        active,
		categories:    []category.ID{},
		createdAt:     now,
		updatedAt:     now,
	}
	if !active {
		g.deletedAt = &now
	}
	return g.withName(name)
}

// With reconstructs a Genre from stored state, validating it.
func With(id ID, name string, active bool, categories []category.ID, createdAt, updatedAt time.Time, deletedAt *time.Time) (*Genre, error) {
	g := &Genre{
		AggregateRoot: domain.NewAggregateRoot(id),
		active:        active,
		categories:    append([]category.ID{}, categories...),
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     copyTime(deletedAt),
	}
	return g.withName(&name)
}

// withName validates name and sets it on g, which must be a fresh copy.
func (g *Genre) withName(name *string) (*Genre, error) {
	n := validation.NewNotification()
	_ = NewValidator(name, n).Validate()
	if n.HasErrors() {
		return nil, validation.FromHandler(n)
	}
	g.name = *name
	return g, nil
}

// Clone returns an independent copy, including a fresh category list.
func (g *Genre) Clone() *Genre {
	cp := *g
	cp.categories = append([]category.ID{}, g.categories...)
	cp.deletedAt = copyTime(g.deletedAt)
	return &cp
}

// Update returns a copy with the given attributes, replacing the category
// list wholesale. The receiver is untouched.
func (g *Genre) Update(name *string, active bool, categories []category.ID) (*Genre, error) {
	var cp *Genre
	if active {
		cp = g.Activate()
	} else {
		cp = g.Deactivate()
	}
	cp.categories = append([]category.ID{}, categories...)
	return cp.withName(name)
}

// Activate returns an active copy with the soft-delete mark cleared.
func (g *Genre) Activate() *Genre {
	cp := g.Clone()
	cp.active = true
	cp.deletedAt = nil
	cp.updatedAt = domain.Touch(g.updatedAt)
	return cp
}

// Deactivate returns an inactive copy. An existing soft-delete instant is
// kept.
func (g *Genre) Deactivate() *Genre {
	cp := g.Clone()
	now := domain.Touch(g.updatedAt)
	if cp.deletedAt == nil {
		cp.deletedAt = &now
	}
	cp.active = false
	cp.updatedAt = now
	return cp
}

// AddCategory returns a copy with id appended. An empty id is ignored.
func (g *Genre) AddCategory(id category.ID) *Genre {
	if id == "" {
		return g
	}
	cp := g.Clone()
	cp.categories = append(cp.categories, id)
	cp.updatedAt = domain.Touch(g.updatedAt)
	return cp
}

// AddCategories returns a copy with ids appended in order. An empty list is
// ignored.
func (g *Genre) AddCategories(ids []category.ID) *Genre {
	if len(ids) == 0 {
		return g
	}
	cp := g.Clone()
	cp.categories = append(cp.categories, ids...)
	cp.updatedAt = domain.Touch(g.updatedAt)
	return cp
}

// RemoveCategory returns a copy without the first occurrence of id.
func (g *Genre) RemoveCategory(id category.ID) *Genre {
	for i, existing := range g.categories {
		if existing != id {
			continue
		}
		cp := g.Clone()
		cp.categories = append(cp.categories[:i], cp.categories[i+1:]...)
		cp.updatedAt = domain.Touch(g.updatedAt)
		return cp
	}
	return g
}

// Validate reports every constraint violation to h.
func (g *Genre) Validate(h validation.Handler) error {
	return NewValidator(&g.name, h).Validate()
}

func (g *Genre) Name() string { return g.name }
func (g *Genre) IsActive() bool { return g.active }
func (g *Genre) CreatedAt() time.Time { return g.createdAt }
func (g *Genre) UpdatedAt() time.Time { return g.updatedAt }
func (g *Genre) DeletedAt() *time.Time { return copyTime(g.deletedAt) }

// Categories returns a copy of the category list.
func (g *Genre) Categories() []category.ID {
	return append([]category.ID{}, g.categories...)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
