package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/validation"
	"github.com/utafrali/catalog/internal/event"
	"github.com/utafrali/catalog/pkg/pagination"
)

// CategoryOutput is the full view of a category.
type CategoryOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// CategoryListOutput is the listing view of a category.
type CategoryListOutput struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// CreateCategoryCommand carries the input of CreateCategory.
type CreateCategoryCommand struct {
	Name        *string
	Description string
	Active      bool
}

// UpdateCategoryCommand carries the input of UpdateCategory.
type UpdateCategoryCommand struct {
	ID          string
	Name        *string
	Description string
	Active      bool
}

// Categories groups the category use cases.
type Categories struct {
	Create *CreateCategory
	Update *UpdateCategory
	Delete *DeleteCategory
	Get    *GetCategoryByID
	List   *ListCategories
}

// NewCategories wires every category use case over one gateway.
func NewCategories(gateway category.Gateway, events *event.Producer, logger *slog.Logger) *Categories {
	return &Categories{
		Create: NewCreateCategory(gateway, events, logger),
		Update: NewUpdateCategory(gateway, events, logger),
		Delete: NewDeleteCategory(gateway, events, logger),
		Get:    NewGetCategoryByID(gateway),
		List:   NewListCategories(gateway),
	}
}

// CreateCategory validates and stores a new category.
type CreateCategory struct {
	gateway category.Gateway
	events  *event.Producer
	logger  *slog.Logger
}

// NewCreateCategory creates the CreateCategory use case.
func NewCreateCategory(gateway category.Gateway, events *event.Producer, logger *slog.Logger) *CreateCategory {
	return &CreateCategory{gateway: gateway, events: events, logger: logger}
}

// Execute returns a *validation.DomainError holding every violation when
// the command is invalid. Nothing is stored in that case.
func (uc *CreateCategory) Execute(ctx context.Context, cmd CreateCategoryCommand) (*IDOutput, error) {
	c := category.New(cmd.Name, cmd.Description, cmd.Active)

	n := validation.NewNotification()
	_ = c.Validate(n)
	if n.HasErrors() {
		return nil, n.Err()
	}

	created, err := uc.gateway.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	uc.logger.InfoContext(ctx, "category created",
		slog.String("category_id", created.ID().Value()),
		slog.String("name", created.Name()),
	)

	// Do not fail the operation if event publishing fails.
	if err := uc.events.PublishCategoryCreated(ctx, created); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish category.created event",
			slog.String("category_id", created.ID().Value()),
			slog.String("error", err.Error()),
		)
	}

	return &IDOutput{ID: created.ID().Value()}, nil
}

// UpdateCategory replaces the name, description and active flag of a
// stored category.
type UpdateCategory struct {
	gateway category.Gateway
	events  *event.Producer
	logger  *slog.Logger
}

// NewUpdateCategory creates the UpdateCategory use case.
func NewUpdateCategory(gateway category.Gateway, events *event.Producer, logger *slog.Logger) *UpdateCategory {
	return &UpdateCategory{gateway: gateway, events: events, logger: logger}
}

func (uc *UpdateCategory) Execute(ctx context.Context, cmd UpdateCategoryCommand) (*IDOutput, error) {
	current, err := uc.gateway.FindByID(ctx, category.ID(cmd.ID))
	if err != nil {
		return nil, lookupError(err, "Category", cmd.ID)
	}

	updated := current.Update(cmd.Name, cmd.Description, cmd.Active)

	n := validation.NewNotification()
	_ = updated.Validate(n)
	if n.HasErrors() {
		return nil, n.Err()
	}

	saved, err := uc.gateway.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	uc.logger.InfoContext(ctx, "category updated",
		slog.String("category_id", saved.ID().Value()),
	)

	if err := uc.events.PublishCategoryUpdated(ctx, saved); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish category.updated event",
			slog.String("category_id", saved.ID().Value()),
			slog.String("error", err.Error()),
		)
	}

	return &IDOutput{ID: saved.ID().Value()}, nil
}

// DeleteCategory removes a category. Deleting a missing category succeeds.
type DeleteCategory struct {
	gateway category.Gateway
	events  *event.Producer
	logger  *slog.Logger
}

// NewDeleteCategory creates the DeleteCategory use case.
func NewDeleteCategory(gateway category.Gateway, events *event.Producer, logger *slog.Logger) *DeleteCategory {
	return &DeleteCategory{gateway: gateway, events: events, logger: logger}
}

func (uc *DeleteCategory) Execute(ctx context.Context, id string) error {
	if err := uc.gateway.DeleteByID(ctx, category.ID(id)); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	uc.logger.InfoContext(ctx, "category deleted", slog.String("category_id", id))

	if err := uc.events.PublishCategoryDeleted(ctx, category.ID(id)); err != nil {
		uc.logger.ErrorContext(ctx, "failed to publish category.deleted event",
			slog.String("category_id", id),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// GetCategoryByID loads one category.
type GetCategoryByID struct {
	gateway category.Gateway
}

func NewGetCategoryByID(gateway category.Gateway) *GetCategoryByID {
	return &GetCategoryByID{gateway: gateway}
}

// Execute fails with a not-found *validation.DomainError when the category
// does not exist.
func (uc *GetCategoryByID) Execute(ctx context.Context, id string) (*CategoryOutput, error) {
	c, err := uc.gateway.FindByID(ctx, category.ID(id))
	if err != nil {
		return nil, lookupError(err, "Category", id)
	}
	return &CategoryOutput{
		ID:          c.ID().Value(),
		Name:        c.Name(),
		Description: c.Description(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
		DeletedAt:   c.DeletedAt(),
	}, nil
}

// ListCategories returns one page of categories.
type ListCategories struct {
	gateway category.Gateway
}

func NewListCategories(gateway category.Gateway) *ListCategories {
	return &ListCategories{gateway: gateway}
}

// Execute passes q to the gateway unchanged and keeps its page metadata.
func (uc *ListCategories) Execute(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[CategoryListOutput], error) {
	page, err := uc.gateway.FindAll(ctx, q)
	if err != nil {
		return pagination.Pagination[CategoryListOutput]{}, fmt.Errorf("list categories: %w", err)
	}
	return pagination.Map(page, func(c *category.Category) CategoryListOutput {
		return CategoryListOutput{
			ID:          c.ID().Value(),
			Name:        c.Name(),
			Description: c.Description(),
			IsActive:    c.IsActive(),
			CreatedAt:   c.CreatedAt(),
			DeletedAt:   c.DeletedAt(),
		}
	}), nil
}
