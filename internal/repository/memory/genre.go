package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/utafrali/catalog/internal/domain/genre"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/pagination"
)

// GenreGateway is a concurrency-safe in-memory genre.Gateway.
type GenreGateway struct {
	mu    sync.RWMutex
	items map[genre.ID]*genre.Genre
}

var _ genre.Gateway = (*GenreGateway)(nil)

func NewGenreGateway() *GenreGateway {
	return &GenreGateway{items: make(map[genre.ID]*genre.Genre)}
}

func (r *GenreGateway) Create(_ context.Context, g *genre.Genre) (*genre.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[g.ID()]; ok {
		return nil, apperrors.AlreadyExists("genre", g.ID().Value())
	}
	r.items[g.ID()] = g
	return g, nil
}

func (r *GenreGateway) Update(_ context.Context, g *genre.Genre) (*genre.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[g.ID()]; !ok {
		return nil, apperrors.NotFound("genre", g.ID().Value())
	}
	r.items[g.ID()] = g
	return g, nil
}

func (r *GenreGateway) DeleteByID(_ context.Context, id genre.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *GenreGateway) FindByID(_ context.Context, id genre.ID) (*genre.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return g, nil
}

func (r *GenreGateway) FindAll(_ context.Context, q pagination.SearchQuery) (pagination.Pagination[*genre.Genre], error) {
	r.mu.RLock()
	matched := make([]*genre.Genre, 0, len(r.items))
	for _, g := range r.items {
		if !q.HasTerms() || containsFold(g.Name(), q.Terms) {
			matched = append(matched, g)
		}
	}
	r.mu.RUnlock()

	field := genre.NormalizeSort(q.Sort)
	slices.SortFunc(matched, func(a, b *genre.Genre) int {
		var c int
		switch field {
		case genre.SortCreatedAt:
			c = a.CreatedAt().Compare(b.CreatedAt())
		case genre.SortUpdatedAt:
			c = a.UpdatedAt().Compare(b.UpdatedAt())
		default:
			c = compareText(a.Name(), b.Name())
		}
		if q.Descending() {
			c = -c
		}
		return tieBreak(c, a.CreatedAt(), b.CreatedAt(), a.ID().Value(), b.ID().Value())
	})

	return pagination.New(q.Page, q.PerPage, int64(len(matched)), pagination.Window(matched, q)), nil
}

// Len returns the number of stored genres.
func (r *GenreGateway) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
