package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/genre"
	pkgkafka "github.com/utafrali/catalog/pkg/kafka"
	"github.com/utafrali/catalog/pkg/logger"
)

// Aggregate type constants.
const (
	AggregateTypeCategory = "category"
	AggregateTypeGenre    = "genre"
)

// Kafka topic constants for catalog domain events.
var (
	TopicCategoryCreated = pkgkafka.Topic(AggregateTypeCategory, "created")
	TopicCategoryUpdated = pkgkafka.Topic(AggregateTypeCategory, "updated")
	TopicCategoryDeleted = pkgkafka.Topic(AggregateTypeCategory, "deleted")
	TopicGenreCreated    = pkgkafka.Topic(AggregateTypeGenre, "created")
	TopicGenreUpdated    = pkgkafka.Topic(AggregateTypeGenre, "updated")
	TopicGenreDeleted    = pkgkafka.Topic(AggregateTypeGenre, "deleted")
)

// SourceCatalogService identifies events originating from this service.
const SourceCatalogService = "catalog-service"

// MetadataActor is the metadata key carrying the acting user, when known.
const MetadataActor = "actor"

// CategoryData is the payload of category.created and category.updated.
type CategoryData struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// GenreData is the payload of genre.created and genre.updated.
type GenreData struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IsActive   bool       `json:"is_active"`
	Categories []string   `json:"categories_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// DeletedData is the payload of every *.deleted event.
type DeletedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer. A nil publisher drops events.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	if publisher == nil {
		publisher = pkgkafka.NopPublisher{}
	}
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, c *category.Category) error {
	return p.publish(ctx, TopicCategoryCreated, c.ID().Value(), AggregateTypeCategory, categoryData(c))
}

// PublishCategoryUpdated publishes a category.updated event.
func (p *Producer) PublishCategoryUpdated(ctx context.Context, c *category.Category) error {
	return p.publish(ctx, TopicCategoryUpdated, c.ID().Value(), AggregateTypeCategory, categoryData(c))
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id category.ID) error {
	return p.publish(ctx, TopicCategoryDeleted, id.Value(), AggregateTypeCategory, DeletedData{ID: id.Value()})
}

// PublishGenreCreated publishes a genre.created event.
func (p *Producer) PublishGenreCreated(ctx context.Context, g *genre.Genre) error {
	return p.publish(ctx, TopicGenreCreated, g.ID().Value(), AggregateTypeGenre, genreData(g))
}

// PublishGenreUpdated publishes a genre.updated event.
func (p *Producer) PublishGenreUpdated(ctx context.Context, g *genre.Genre) error {
	return p.publish(ctx, TopicGenreUpdated, g.ID().Value(), AggregateTypeGenre, genreData(g))
}

// PublishGenreDeleted publishes a genre.deleted event.
func (p *Producer) PublishGenreDeleted(ctx context.Context, id genre.ID) error {
	return p.publish(ctx, TopicGenreDeleted, id.Value(), AggregateTypeGenre, DeletedData{ID: id.Value()})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}
	if actor := logger.ActorFromContext(ctx); actor != "" {
		event.WithMetadata(MetadataActor, actor)
	}

	if err := p.publisher.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

func categoryData(c *category.Category) CategoryData {
	return CategoryData{
		ID:          c.ID().Value(),
		Name:        c.Name(),
		Description: c.Description(),
		IsActive:    c.IsActive(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
		DeletedAt:   c.DeletedAt(),
	}
}

func genreData(g *genre.Genre) GenreData {
	return GenreData{
		ID:         g.ID().Value(),
		Name:       g.Name(),
		IsActive:   g.IsActive(),
		Categories: category.Strings(g.Categories()),
		CreatedAt:  g.CreatedAt(),
		UpdatedAt:  g.UpdatedAt(),
		DeletedAt:  g.DeletedAt(),
	}
}
