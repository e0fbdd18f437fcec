package category

import (
	"context"
	"strings"

	"github.com/utafrali/catalog/pkg/pagination"
)

// Gateway persists categories.
type Gateway interface {
	// Create stores a new category and returns it as stored.
	Create(ctx context.Context, c *Category) (*Category, error)

	// Update replaces a stored category and returns it as stored. It fails
	// with apperrors.ErrNotFound when the category does not exist.
	Update(ctx context.Context, c *Category) (*Category, error)

	// DeleteByID removes a category. Deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id ID) error

	// FindByID fails with apperrors.ErrNotFound when the category does not exist.
	FindByID(ctx context.Context, id ID) (*Category, error)

	// FindAll returns one page of categories whose name or description
	// contains the query terms, case-insensitively.
	FindAll(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[*Category], error)

	// ExistsByIDs returns the subset of ids that exist, in no particular order.
	ExistsByIDs(ctx context.Context, ids []ID) ([]ID, error)
}

// Sort fields accepted by FindAll.
const (
	SortName        = "name"
	SortDescription = "description"
	SortCreatedAt   = "created_at"
	SortUpdatedAt   = "updated_at"
)

// SortFields lists the accepted sort fields.
func SortFields() []string {
	return []string{SortName, SortDescription, SortCreatedAt, SortUpdatedAt}
}

// NormalizeSort maps a requested sort field, in snake_case or camelCase, onto
// one of SortFields. Unknown fields sort by name.
func NormalizeSort(field string) string {
	switch strings.ToLower(strings.ReplaceAll(field, "_", "")) {
	case "description":
		return SortDescription
	case "createdat":
		return SortCreatedAt
	case "updatedat":
		return SortUpdatedAt
	default:
		return SortName
	}
}
