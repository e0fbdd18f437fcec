package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/pkg/database"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/pagination"
)

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, name, description, is_active, created_at, updated_at, deleted_at`

const (
	insertCategory = `
		INSERT INTO categories (id, name, description, is_active, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateCategory = `
		UPDATE categories
		SET name = $1, description = $2, is_active = $3, updated_at = $4, deleted_at = $5
		WHERE id = $6`

	deleteCategory = `DELETE FROM categories WHERE id = $1`

	selectCategoryByID = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	selectExistingCategoryIDs = `SELECT id FROM categories WHERE id = ANY($1)`
)

// CategoryGateway implements category.Gateway using PostgreSQL.
type CategoryGateway struct {
	db database.DBTX
}

var _ category.Gateway = (*CategoryGateway)(nil)

// NewCategoryGateway creates a new PostgreSQL-backed category gateway.
func NewCategoryGateway(db database.DBTX) *CategoryGateway {
	return &CategoryGateway{db: db}
}

// Create inserts a new category.
func (g *CategoryGateway) Create(ctx context.Context, c *category.Category) (_ *category.Category, err error) {
	ctx, end := database.TraceQuery(ctx, "CreateCategory", insertCategory)
	defer func() { end(err) }()

	_, err = g.db.Exec(ctx, insertCategory,
		c.ID().Value(),
		c.Name(),
		c.Description(),
		c.IsActive(),
		c.CreatedAt(),
		c.UpdatedAt(),
		c.DeletedAt(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("category", c.ID().Value())
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// Update replaces every mutable column of a stored category.
func (g *CategoryGateway) Update(ctx context.Context, c *category.Category) (_ *category.Category, err error) {
	ctx, end := database.TraceQuery(ctx, "UpdateCategory", updateCategory)
	defer func() { end(err) }()

	ct, err := g.db.Exec(ctx, updateCategory,
		c.Name(),
		c.Description(),
		c.IsActive(),
		c.UpdatedAt(),
		c.DeletedAt(),
		c.ID().Value(),
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, apperrors.NotFound("category", c.ID().Value())
	}
	return c, nil
}

// DeleteByID removes a category. A missing ID is not an error.
func (g *CategoryGateway) DeleteByID(ctx context.Context, id category.ID) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteCategory", deleteCategory)
	defer func() { end(err) }()

	if _, err = g.db.Exec(ctx, deleteCategory, id.Value()); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// FindByID retrieves a category by its identifier.
func (g *CategoryGateway) FindByID(ctx context.Context, id category.ID) (_ *category.Category, err error) {
	ctx, end := database.TraceQuery(ctx, "FindCategory", selectCategoryByID)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	c, err := scanCategory(g.db.QueryRow(ctx, selectCategoryByID, id.Value()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return c, nil
}

// FindAll returns one page of categories whose name or description contains
// the query terms.
func (g *CategoryGateway) FindAll(ctx context.Context, q pagination.SearchQuery) (_ pagination.Pagination[*category.Category], err error) {
	where := ""
	var args []any
	if q.HasTerms() {
		where = "WHERE name ILIKE $1 OR description ILIKE $1"
		args = append(args, containsPattern(q.Terms))
	}

	countQuery := `SELECT count(*) FROM categories ` + where
	listQuery := fmt.Sprintf(`SELECT %s FROM categories %s %s LIMIT $%d OFFSET $%d`,
		categoryColumns, where, orderBy(category.NormalizeSort(q.Sort), q), len(args)+1, len(args)+2)

	ctx, end := database.TraceQuery(ctx, "ListCategories", listQuery)
	defer func() { end(err) }()

	var total int64
	if err = g.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return pagination.Pagination[*category.Category]{}, fmt.Errorf("count categories: %w", err)
	}
	if total == 0 {
		return pagination.Empty[*category.Category](q), nil
	}

	rows, err := g.db.Query(ctx, listQuery, append(args, q.PerPage, q.Offset())...)
	if err != nil {
		return pagination.Pagination[*category.Category]{}, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return pagination.Pagination[*category.Category]{}, fmt.Errorf("scan category row: %w", err)
		}
		items = append(items, c)
	}
	if err = rows.Err(); err != nil {
		return pagination.Pagination[*category.Category]{}, fmt.Errorf("iterate category rows: %w", err)
	}

	return pagination.New(q.Page, q.PerPage, total, items), nil
}

// ExistsByIDs returns the subset of ids stored in the categories table.
func (g *CategoryGateway) ExistsByIDs(ctx context.Context, ids []category.ID) (_ []category.ID, err error) {
	if len(ids) == 0 {
		return []category.ID{}, nil
	}

	ctx, end := database.TraceQuery(ctx, "ExistsCategories", selectExistingCategoryIDs)
	defer func() { end(err) }()

	rows, err := g.db.Query(ctx, selectExistingCategoryIDs, category.Strings(ids))
	if err != nil {
		return nil, fmt.Errorf("query existing categories: %w", err)
	}
	defer rows.Close()

	found := []category.ID{}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		found = append(found, category.ID(id))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category ids: %w", err)
	}
	return found, nil
}

// scanCategory scans a single category row from a pgx.Row or pgx.Rows.
func scanCategory(row pgx.Row) (*category.Category, error) {
	var (
		id, name, description string
		active                bool
		createdAt, updatedAt  time.Time
		deletedAt             *time.Time
	)
	if err := row.Scan(&id, &name, &description, &active, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	return category.With(category.ID(id), name, description, active, utc(createdAt), utc(updatedAt), utcPtr(deletedAt)), nil
}
