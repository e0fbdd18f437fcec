// Package domain holds the building blocks shared by the catalog aggregates.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/catalog/internal/domain/validation"
)

// Identifier is the value type that identifies an aggregate.
type Identifier interface {
	comparable
	Value() string
}

// AggregateRoot is embedded by every aggregate and carries its identity.
type AggregateRoot[ID Identifier] struct {
	id ID
}

// NewAggregateRoot creates the identity part of an aggregate.
func NewAggregateRoot[ID Identifier](id ID) AggregateRoot[ID] {
	return AggregateRoot[ID]{id: id}
}

// ID returns the aggregate's identifier.
func (a AggregateRoot[ID]) ID() ID {
	return a.id
}

// Validatable is implemented by aggregates that can report their own
// constraint violations to a validation handler.
type Validatable interface {
	Validate(h validation.Handler) error
}

// NewIdentifier returns a fresh random identifier value.
func NewIdentifier() string {
	return uuid.NewString()
}

// Now returns the current instant in UTC at microsecond precision, which is
// the finest resolution PostgreSQL keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Touch returns the instant to record for a modification of something last
// modified at prev. It never returns a value at or before prev, even when
// both fall into the same microsecond.
func Touch(prev time.Time) time.Time {
	now := Now()
	if next := prev.Add(time.Microsecond); now.Before(next) {
		return next
	}
	return now
}
