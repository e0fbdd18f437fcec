package category

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/internal/domain/validation"
)

func strPtr(s string) *string { return &s }


// ============================================================================
// Construction Tests
// ============================================================================

func TestNew_Active(t *testing.T) {
	c := New(strPtr("Movies"), "Most watched", true)

	assert.NotEmpty(t, c.ID().Value())
	assert.Equal(t, "Movies", c.Name())
	assert.Equal(t, "Most watched", c.Description())
	assert.True(t, c.IsActive())
	assert.Nil(t, c.DeletedAt())
	assert.Equal(t, c.CreatedAt(), c.UpdatedAt())
	assert.False(t, c.CreatedAt().IsZero())
}

func TestNew_InactiveIsSoftDeleted(t *testing.T) {
	c := New(strPtr("Movies"), "", false)

	assert.False(t, c.IsActive())
	require.NotNil(t, c.DeletedAt())
	assert.Equal(t, c.CreatedAt(), *c.DeletedAt())
}

func TestNew_ActiveMatchesDeletedAtForValidInputs(t *testing.T) {
	for _, name := range []string{"abc", "Movies", strings.Repeat("x", 255), "  padded  "} {
		for _, active := range []bool{true, false} {
			c := New(strPtr(name), "", active)
			require.NoError(t, c.Validate(validation.FailFast{}))
			assert.Equal(t, active, c.DeletedAt() == nil)
			assert.Equal(t, c.CreatedAt(), c.UpdatedAt())
		}
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	assert.NotEqual(t, New(strPtr("abc"), "", true).ID(), New(strPtr("abc"), "", true).ID())
}

func TestWith_RoundTrip(t *testing.T) {
	original := New(strPtr("Movies"), "Most watched", false)

	restored := With(original.ID(), original.Name(), original.Description(), original.IsActive(),
		original.CreatedAt(), original.UpdatedAt(), original.DeletedAt())

	assert.Equal(t, original, restored)
}

// ============================================================================
// Mutation Tests
// ============================================================================

func TestDeactivate(t *testing.T) {
	c := New(strPtr("Movies"), "", true)
	d := c.Deactivate()

	assert.False(t, d.IsActive())
	require.NotNil(t, d.DeletedAt())
	assert.True(t, d.UpdatedAt().After(c.UpdatedAt()))
	assert.Equal(t, c.CreatedAt(), d.CreatedAt())

	assert.True(t, c.IsActive(), "receiver must not change")
	assert.Nil(t, c.DeletedAt())
}

func TestDeactivate_KeepsExistingDeletedAt(t *testing.T) {
	c := New(strPtr("Movies"), "", false)
	d := c.Deactivate()
	assert.Equal(t, *c.DeletedAt(), *d.DeletedAt())
}

func TestActivate(t *testing.T) {
	c := New(strPtr("Movies"), "", false)
	a := c.Activate()

	assert.True(t, a.IsActive())
	assert.Nil(t, a.DeletedAt())
	assert.True(t, a.UpdatedAt().After(c.UpdatedAt()))
	assert.False(t, c.IsActive())
}

func TestUpdate_TogglesAndBumpsUpdatedAt(t *testing.T) {
	c := New(strPtr("Movies"), "old", true)
	first := c.Update(strPtr("Films"), "new", true)
	second := first.Update(strPtr("Films"), "new", false)

	assert.Equal(t, "Films", first.Name())
	assert.Equal(t, "new", first.Description())
	assert.Nil(t, first.DeletedAt())
	assert.True(t, first.UpdatedAt().After(c.UpdatedAt()))

	assert.False(t, second.IsActive())
	assert.NotNil(t, second.DeletedAt())
	assert.True(t, second.UpdatedAt().After(first.UpdatedAt()))

	assert.Equal(t, c.CreatedAt(), second.CreatedAt())
	assert.Equal(t, c.ID(), second.ID())
	assert.Equal(t, "Movies", c.Name(), "receiver must not change")
}

func TestUpdate_BackToBackStrictlyIncreasesUpdatedAt(t *testing.T) {
	c := New(strPtr("Movies"), "d", true)

	for i := 0; i < 1000; i++ {
		active := c.Update(strPtr("Movies"), "d", true)
		inactive := active.Update(strPtr("Movies"), "d", false)

		require.True(t, active.UpdatedAt().After(c.UpdatedAt()))
		require.True(t, inactive.UpdatedAt().After(active.UpdatedAt()))
		c = inactive
	}
}

func TestActivateDeactivate_BackToBackStrictlyIncreaseUpdatedAt(t *testing.T) {
	c := New(strPtr("Movies"), "", true)
	d := c.Deactivate()
	a := d.Activate()

	assert.True(t, d.UpdatedAt().After(c.UpdatedAt()))
	assert.True(t, a.UpdatedAt().After(d.UpdatedAt()))
	assert.Equal(t, d.UpdatedAt(), *d.DeletedAt())
}

func TestUpdate_KeepsIdentity(t *testing.T) {
	c := New(strPtr("Movies"), "", true)
	assert.Equal(t, c.ID(), c.Update(nil, "", true).ID())
}

func TestClone_IsIndependent(t *testing.T) {
	c := New(strPtr("Movies"), "", false)
	cp := c.Clone()

	assert.Equal(t, c, cp)
	assert.NotSame(t, c, cp)
	assert.NotSame(t, c.name, cp.name)
	assert.NotSame(t, c.deletedAt, cp.deletedAt)
}

// ============================================================================
// Validation Tests
// ============================================================================

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name    string
		value   *string
		message string
	}{
		{"null", nil, "'name' should not be null"},
		{"empty", strPtr(""), "'name' should not be empty"},
		{"blank", strPtr("  \t "), "'name' should not be empty"},
		{"short", strPtr("ab"), "'name' must be between 3 and 255 characters"},
		{"short after trim", strPtr("  ab  "), "'name' must be between 3 and 255 characters"},
		{"long", strPtr(strings.Repeat("x", 256)), "'name' must be between 3 and 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validation.NewNotification()
			require.NoError(t, New(tt.value, "", true).Validate(n))
			assert.Equal(t, []validation.Error{{Message: tt.message}}, n.Errors())
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	n := validation.NewNotification()
	require.NoError(t, New(strPtr("Movies"), "", true).Validate(n))
	assert.False(t, n.HasErrors())
}

func TestValidate_FailFastReturnsDomainError(t *testing.T) {
	err := New(nil, "", true).Validate(validation.FailFast{})

	domainErr, ok := validation.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"'name' should not be null"}, domainErr.Messages())
}

// ============================================================================
// Sort Tests
// ============================================================================

func TestNormalizeSort(t *testing.T) {
	assert.Equal(t, SortName, NormalizeSort("name"))
	assert.Equal(t, SortDescription, NormalizeSort("description"))
	assert.Equal(t, SortCreatedAt, NormalizeSort("createdAt"))
	assert.Equal(t, SortCreatedAt, NormalizeSort("created_at"))
	assert.Equal(t, SortUpdatedAt, NormalizeSort("UPDATED_AT"))
	assert.Equal(t, SortName, NormalizeSort("password"))
	assert.Equal(t, SortName, NormalizeSort(""))
}

func TestIDs_KeepOrderAndDuplicates(t *testing.T) {
	ids := IDs([]string{"b", "a", "b"})
	assert.Equal(t, []ID{"b", "a", "b"}, ids)
	assert.Equal(t, []string{"b", "a", "b"}, Strings(ids))
}
