package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/utafrali/catalog/internal/domain/category"
	"github.com/utafrali/catalog/internal/domain/genre"
	"github.com/utafrali/catalog/internal/event"
	pkgkafka "github.com/utafrali/catalog/pkg/kafka"
	"github.com/utafrali/catalog/pkg/pagination"
)

// echo makes a mocked Create or Update return the aggregate it was given.
const echo = "echo"

// --- Mock Category Gateway ---

type mockCategoryGateway struct {
	mock.Mock
}

func (m *mockCategoryGateway) Create(ctx context.Context, c *category.Category) (*category.Category, error) {
	args := m.Called(ctx, c)
	return categoryResult(args, c)
}

func (m *mockCategoryGateway) Update(ctx context.Context, c *category.Category) (*category.Category, error) {
	args := m.Called(ctx, c)
	return categoryResult(args, c)
}

func (m *mockCategoryGateway) DeleteByID(ctx context.Context, id category.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryGateway) FindByID(ctx context.Context, id category.ID) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockCategoryGateway) FindAll(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[*category.Category], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(pagination.Pagination[*category.Category]), args.Error(1)
}

func (m *mockCategoryGateway) ExistsByIDs(ctx context.Context, ids []category.ID) ([]category.ID, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]category.ID), args.Error(1)
}

func categoryResult(args mock.Arguments, in *category.Category) (*category.Category, error) {
	switch v := args.Get(0).(type) {
	case string:
		return in, args.Error(1)
	case *category.Category:
		return v, args.Error(1)
	default:
		return nil, args.Error(1)
	}
}

// --- Mock Genre Gateway ---

type mockGenreGateway struct {
	mock.Mock
}

func (m *mockGenreGateway) Create(ctx context.Context, g *genre.Genre) (*genre.Genre, error) {
	args := m.Called(ctx, g)
	return genreResult(args, g)
}

func (m *mockGenreGateway) Update(ctx context.Context, g *genre.Genre) (*genre.Genre, error) {
	args := m.Called(ctx, g)
	return genreResult(args, g)
}

func (m *mockGenreGateway) DeleteByID(ctx context.Context, id genre.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGenreGateway) FindByID(ctx context.Context, id genre.ID) (*genre.Genre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genre.Genre), args.Error(1)
}

func (m *mockGenreGateway) FindAll(ctx context.Context, q pagination.SearchQuery) (pagination.Pagination[*genre.Genre], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(pagination.Pagination[*genre.Genre]), args.Error(1)
}

func genreResult(args mock.Arguments, in *genre.Genre) (*genre.Genre, error) {
	switch v := args.Get(0).(type) {
	case string:
		return in, args.Error(1)
	case *genre.Genre:
		return v, args.Error(1)
	default:
		return nil, args.Error(1)
	}
}

// --- Test Helpers ---

type recordingPublisher struct {
	topics []string
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ *pkgkafka.Event) error {
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestProducer(pub *recordingPublisher) *event.Producer {
	return event.NewProducer(pub, newTestLogger())
}

func strPtr(s string) *string {
	return &s
}
