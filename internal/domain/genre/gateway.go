package genre

import (
	"context"
	"strings"

	"github.com/utafrali/catalog/pkg/pagination"
)

// Gateway persists genres together with their ordered category links.
type Gateway interface {
	// Create stores a new genre and returns it as stored.
	Create(ctx context.Context, g *Genre) (*Genre, error)

	// Update replaces a stored genre, including its category list. It fails
	// with apperrors.ErrNotFound when the genre does not exist.
	Update(ctx context.Context, g *Genre) (*Genre, error)

	// DeleteByID removes a genre. Deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id ID) error

	// FindByID fails with apperrors.ErrNotFound when the genre does not exist.
	FindByID(ctx context.Context, id ID) (*Genre, error)

	// FindAll returns one page of genres whose name contains the query
	// terms, case-insensitively.
	FindAll(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[*Genre], error)
}

// Sort fields accepted by FindAll.
const (
	SortName      = "name"
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
)

// SortFields lists the accepted sort fields.
func SortFields() []string {
	return []string{SortName, SortCreatedAt, SortUpdatedAt}
}

// NormalizeSort maps a requested sort field onto one of SortFields. Unknown
// fields sort by name.
func NormalizeSort(field string) string {
	switch strings.ToLower(strings.ReplaceAll(field, "_", "")) {
	case "createdat":
		return SortCreatedAt
	case "updatedat":
		return SortUpdatedAt
	default:
		return SortName
	}
}
