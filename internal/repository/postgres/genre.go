package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/genre"
	"github.com/utafrali/catalog/pkg/database"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/pagination"
)

// genreColumns is the standard SELECT column list for genres.
const genreColumns = `id, name, is_active, created_at, updated_at, deleted_at`

const (
	insertGenre = `
		INSERT INTO genres (id, name, is_active, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	updateGenre = `
		UPDATE genres
		SET name = $1, is_active = $2, updated_at = $3, deleted_at = $4
		WHERE id = $5`

	// Links are removed by ON DELETE CASCADE.
	deleteGenre = `DELETE FROM genres WHERE id = $1`

	selectGenreByID = `SELECT ` + genreColumns + ` FROM genres WHERE id = $1`

	insertGenreCategories = `
		INSERT INTO genres_categories (genre_id, position, category_id)
		SELECT $1, t.ord - 1, t.category_id
		FROM unnest($2::varchar[]) WITH ORDINALITY AS t(category_id, ord)`

	deleteGenreCategories = `DELETE FROM genres_categories WHERE genre_id = $1`

	selectGenreCategories = `
		SELECT genre_id, category_id
		FROM genres_categories
		WHERE genre_id = ANY($1)
		ORDER BY genre_id, position`
)

// GenreGateway implements genre.Gateway using PostgreSQL. A genre and its
// category links are always written in one transaction.
type GenreGateway struct {
	db database.DBTX
}

var _ genre.Gateway = (*GenreGateway)(nil)

// NewGenreGateway creates a new PostgreSQL-backed genre gateway.
func NewGenreGateway(db database.DBTX) *GenreGateway {
	return &GenreGateway{db: db}
}

// Create inserts a new genre together with its category links.
func (r *GenreGateway) Create(ctx context.Context, g *genre.Genre) (_ *genre.Genre, err error) {
	ctx, end := database.TraceQuery(ctx, "CreateGenre", insertGenre)
	defer func() { end(err) }()

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertGenre,
			g.ID().Value(),
			g.Name(),
			g.IsActive(),
			g.CreatedAt(),
			g.UpdatedAt(),
			g.DeletedAt(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.AlreadyExists("genre", g.ID().Value())
			}
			return fmt.Errorf("insert genre: %w", err)
		}
		return insertLinks(ctx, tx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Update replaces a stored genre and its whole category list.
func (r *GenreGateway) Update(ctx context.Context, g *genre.Genre) (_ *genre.Genre, err error) {
	ctx, end := database.TraceQuery(ctx, "UpdateGenre", updateGenre)
	defer func() { end(err) }()

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, updateGenre,
			g.Name(),
			g.IsActive(),
			g.UpdatedAt(),
			g.DeletedAt(),
			g.ID().Value(),
		)
		if err != nil {
			return fmt.Errorf("update genre: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("genre", g.ID().Value())
		}

		if _, err := tx.Exec(ctx, deleteGenreCategories, g.ID().Value()); err != nil {
			return fmt.Errorf("clear genre categories: %w", err)
		}
		return insertLinks(ctx, tx, g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteByID removes a genre and its links. A missing ID is not an error.
func (r *GenreGateway) DeleteByID(ctx context.Context, id genre.ID) (err error) {
	ctx, end := database.TraceQuery(ctx, "DeleteGenre", deleteGenre)
	defer func() { end(err) }()

	if _, err = r.db.Exec(ctx, deleteGenre, id.Value()); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}

// FindByID retrieves a genre and its ordered category links.
func (r *GenreGateway) FindByID(ctx context.Context, id genre.ID) (_ *genre.Genre, err error) {
	ctx, end := database.TraceQuery(ctx, "FindGenre", selectGenreByID)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	row, err := scanGenreRow(r.db.QueryRow(ctx, selectGenreByID, id.Value()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan genre: %w", err)
	}

	links, err := r.loadLinks(ctx, []string{row.id})
	if err != nil {
		return nil, err
	}
	return row.toGenre(links[row.id])
}

// FindAll returns one page of genres whose name contains the query terms.
func (r *GenreGateway) FindAll(ctx context.Context, q pagination.SearchQuery) (_ pagination.Pagination[*genre.Genre], err error) {
	where := ""
	var args []any
	if q.HasTerms() {
		where = "WHERE name ILIKE $1"
		args = append(args, containsPattern(q.Terms))
	}

	countQuery := `SELECT count(*) FROM genres ` + where
	listQuery := fmt.Sprintf(`SELECT %s FROM genres %s %s LIMIT $%d OFFSET $%d`,
		genreColumns, where, orderBy(genre.NormalizeSort(q.Sort), q), len(args)+1, len(args)+2)

	ctx, end := database.TraceQuery(ctx, "ListGenres", listQuery)
	defer func() { end(err) }()

	var total int64
	if err = r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return pagination.Pagination[*genre.Genre]{}, fmt.Errorf("count genres: %w", err)
	}
	if total == 0 {
		return pagination.Empty[*genre.Genre](q), nil
	}

	rows, err := r.db.Query(ctx, listQuery, append(args, q.PerPage, q.Offset())...)
	if err != nil {
		return pagination.Pagination[*genre.Genre]{}, fmt.Errorf("list genres: %w", err)
	}

	var page []genreRow
	for rows.Next() {
		row, err := scanGenreRow(rows)
		if err != nil {
			rows.Close()
			return pagination.Pagination[*genre.Genre]{}, fmt.Errorf("scan genre row: %w", err)
		}
		page = append(page, row)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return pagination.Pagination[*genre.Genre]{}, fmt.Errorf("iterate genre rows: %w", err)
	}

	ids := make([]string, 0, len(page))
	for _, row := range page {
		ids = append(ids, row.id)
	}
	links, err := r.loadLinks(ctx, ids)
	if err != nil {
		return pagination.Pagination[*genre.Genre]{}, err
	}

	items := make([]*genre.Genre, 0, len(page))
	for _, row := range page {
		g, err := row.toGenre(links[row.id])
		if err != nil {
			return pagination.Pagination[*genre.Genre]{}, err
		}
		items = append(items, g)
	}
	return pagination.New(q.Page, q.PerPage, total, items), nil
}

// loadLinks returns the ordered category IDs of every genre in genreIDs.
func (r *GenreGateway) loadLinks(ctx context.Context, genreIDs []string) (map[string][]category.ID, error) {
	links := make(map[string][]category.ID, len(genreIDs))
	if len(genreIDs) == 0 {
		return links, nil
	}

	rows, err := r.db.Query(ctx, selectGenreCategories, genreIDs)
	if err != nil {
		return nil, fmt.Errorf("query genre categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var genreID, categoryID string
		if err := rows.Scan(&genreID, &categoryID); err != nil {
			return nil, fmt.Errorf("scan genre category: %w", err)
		}
		links[genreID] = append(links[genreID], category.ID(categoryID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre categories: %w", err)
	}
	return links, nil
}

func insertLinks(ctx context.Context, tx pgx.Tx, g *genre.Genre) error {
	categories := g.Categories()
	if len(categories) == 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, insertGenreCategories, g.ID().Value(), category.Strings(categories)); err != nil {
		return fmt.Errorf("insert genre categories: %w", err)
	}
	return nil
}

// genreRow holds the genres columns until the links are loaded.
type genreRow struct {
	id                   string
	name                 string
	active               bool
	createdAt, updatedAt time.Time
	deletedAt            *time.Time
}

func scanGenreRow(row pgx.Row) (genreRow, error) {
	var g genreRow
	err := row.Scan(&g.id, &g.name, &g.active, &g.createdAt, &g.updatedAt, &g.deletedAt)
	return g, err
}

func (g genreRow) toGenre(categories []category.ID) (*genre.Genre, error) {
	restored, err := genre.With(genre.ID(g.id), g.name, g.active, categories, utc(g.createdAt), utc(g.updatedAt), utcPtr(g.deletedAt))
	if err != nil {
		return nil, fmt.Errorf("restore genre %s: %w", g.id, err)
	}
	return restored, nil
}
