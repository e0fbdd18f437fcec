package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/genre"
	"github.com/utafrali/catalog/internal/domain/validation"
	"github.com/utafrali/catalog/internal/event"
	"github.com/utafrali/catalog/pkg/pagination"
)

// GenreOutput is the full view of a genre.
type GenreOutput struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	Categories []string   `json:"categories_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// GenreListOutput is the listing view of a genre.
type GenreListOutput struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	Categories []string   `json:"categories_id"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// CreateGenreCommand carries the input of CreateGenre. Categories are raw
// category IDs in the order they should be linked.
type CreateGenreCommand struct {
	Name       *string
	Active     bool
	Categories []string
}

// UpdateGenreCommand carries the input of UpdateGenre. Categories replace
// the stored list.
type UpdateGenreCommand struct {
	ID         string
	Name       *string
	Active     bool
	Categories []string
}

// Genres groups the genre use cases.
type Genres struct {
	Create *CreateGenre
	Update *UpdateGenre
	Delete *DeleteGenre
	Get    *GetGenreByID
	List   *ListGenres
}

// NewGenres wires every genre use case. The category gateway is used for
// referential checks only.
func NewGenres(genres genre.Gateway, categories category.Gateway, events *event.Producer, logger *slog.Logger) *Genres {
	return &Genres{
		Create: NewCreateGenre(genres, categories, events, logger),
		Update: NewUpdateGenre(genres, categories, events, logger),
		Delete: NewDeleteGenre(genres, events, logger),
		Get:    NewGetGenreByID(genres),
		List:   NewListGenres(genres),
	}
}

// CreateGenre validates and stores a new genre linked to existing categories.
type CreateGenre struct {
	genres     genre.Gateway
	categories category.Gateway
	events     *event.Producer
	logger     *slog.Logger
}

// NewCreateGenre creates the CreateGenre use case.
func NewCreateGenre(genres genre.Gateway, categories category.Gateway, events *event.Producer, logger *slog.Logger) *CreateGenre {
	return &CreateGenre{genres: genres, categories: categories, events: events, logger: logger}
}

// Execute checks the requested categories before the genre itself, so a
// failing command reports missing categories ahead of name violations.
// Nothing is stored unless both checks pass.
func (uc *CreateGenre) Execute(ctx context.Context, cmd CreateGenreCommand) (*IDOutput, error) {
	ids := category.IDs(cmd.Categories)

	n := validation.NewNotification()
	if err := checkCategories(ctx, uc.categories, ids, n); err != nil {
		return nil, err
	}

	g, err := validation.Capture(n, func() (*genre.Genre, error) {
		return genre.New(cmd.Name, cmd.Active)
	})
	if err != nil {
		return nil, err
	}
	if n.HasErrors() {
		return nil, n.Err()
	}

	created, err := uc.genres.Create(ctx, g.AddCategories(ids))
	if err != nil {
		return nil, fmt.Errorf("create genre: %w", err)
	}

	uc.logger.InfoContext(ctx, "genre created",
		slog.String("genre_id", created.ID().Value()),
		slog.Int("categories", len(created.Categories())),
	)

	// Do not fail the operation if event publishing fails.
	if err := uc.events.PublishGenreCreated(ctx, created); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish genre.created event",
			slog.String("genre_id", created.ID().Value()),
			slog.String("error", err.Error()),
		)
	}

	return &IDOutput{ID: created.ID().Value()}, nil
}

// UpdateGenre replaces the name, active flag and category list of a stored
// genre.
type UpdateGenre struct {
	genres     genre.Gateway
	categories category.Gateway
	events     *event.Producer
	logger     *slog.Logger
}

// NewUpdateGenre creates the UpdateGenre use case.
func NewUpdateGenre(genres genre.Gateway, categories category.Gateway, events *event.Producer, logger *slog.Logger) *UpdateGenre {
	return &UpdateGenre{genres: genres, categories: categories, events: events, logger: logger}
}

// Execute reports errors in the same order as CreateGenre.
func (uc *UpdateGenre) Execute(ctx context.Context, cmd UpdateGenreCommand) (*IDOutput, error) {
	current, err := uc.genres.FindByID(ctx, genre.ID(cmd.ID))
	if err != nil {
		return nil, lookupError(err, "Genre", cmd.ID)
	}

	ids := category.IDs(cmd.Categories)

	n := validation.NewNotification()
	if err := checkCategories(ctx, uc.categories, ids, n); err != nil {
		return nil, err
	}

	updated, err := validation.Capture(n, func() (*genre.Genre, error) {
		return current.Update(cmd.Name, cmd.Active, ids)
	})
	if err != nil {
		return nil, err
	}
	if n.HasErrors() {
		return nil, n.Err()
	}

	saved, err := uc.genres.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}

	uc.logger.InfoContext(ctx, "genre updated",
		slog.String("genre_id", saved.ID().Value()),
		slog.Int("categories", len(saved.Categories())),
	)

	if err := uc.events.PublishGenreUpdated(ctx, saved); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish genre.updated event",
			slog.String("genre_id", saved.ID().Value()),
			slog.String("error", err.Error()),
		)
	}

	return &IDOutput{ID: saved.ID().Value()}, nil
}

// DeleteGenre removes a genre and its category links. Deleting a missing
// genre succeeds.
type DeleteGenre struct {
	genres genre.Gateway
	events *event.Producer
	logger *slog.Logger
}

// NewDeleteGenre creates the DeleteGenre use case.
func NewDeleteGenre(genres genre.Gateway, events *event.Producer, logger *slog.Logger) *DeleteGenre {
	return &DeleteGenre{genres: genres, events: events, logger: logger}
}

func (uc *DeleteGenre) Execute(ctx context.Context, id string) error {
	if err := uc.genres.DeleteByID(ctx, genre.ID(id)); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}

	uc.logger.InfoContext(ctx, "genre deleted", slog.String("genre_id", id))

	if err := uc.events.PublishGenreDeleted(ctx, genre.ID(id)); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish genre.deleted event",
			slog.String("genre_id", id),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// GetGenreByID loads one genre.
type GetGenreByID struct {
	genres genre.Gateway
}

func NewGetGenreByID(genres genre.Gateway) *GetGenreByID {
	return &GetGenreByID{genres: genres}
}

// Execute fails with a not-found *validation.DomainError when the genre
// does not exist.
func (uc *GetGenreByID) Execute(ctx context.Context, id string) (*GenreOutput, error) {
	g, err := uc.genres.FindByID(ctx, genre.ID(id))
	if err != nil {
		return nil, lookupError(err, "Genre", id)
	}
	return &GenreOutput{
		ID:         g.ID().Value(),
		Name:       g.Name(),
		IsActive:   g.IsActive(),
		Categories: category.Strings(g.Categories()),
		CreatedAt:  g.CreatedAt(),
		UpdatedAt:  g.UpdatedAt(),
		DeletedAt:  g.DeletedAt(),
	}, nil
}

// ListGenres returns one page of genres.
type ListGenres struct {
	genres genre.Gateway
}

func NewListGenres(genres genre.Gateway) *ListGenres {
	return &ListGenres{genres: genres}
}

// Execute passes q to the gateway unchanged and keeps its page metadata.
func (uc *ListGenres) Execute(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[GenreListOutput], error) {
	page, err := uc.genres.FindAll(ctx, q)
	if err != nil {
		return pagination.Pagination[GenreListOutput]{}, fmt.Errorf("list genres: %w", err)
	}
	return pagination.Map(page, func(g *genre.Genre) GenreListOutput {
		return GenreListOutput{
			ID:         g.ID().Value(),
			Name:       g.Name(),
			IsActive:   g.IsActive(),
			Categories: category.Strings(g.Categories()),
			CreatedAt:  g.CreatedAt(),
			DeletedAt:  g.DeletedAt(),
		}
	}), nil
}
