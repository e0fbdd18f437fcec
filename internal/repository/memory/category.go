// Package memory implements the catalog gateways in process memory. It
// backs STORAGE_DRIVER=memory and the use-case property tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/utafrali/catalog/internal/domain/category"
	apperrors "github.com/utafrali/catalog/pkg/errors"
	"github.com/utafrali/catalog/pkg/pagination"
)

// CategoryGateway is a concurrency-safe in-memory category.Gateway.
// Aggregates are immutable, so stored pointers are shared with callers.
type CategoryGateway struct {
	mu    sync.RWMutex
	items map[category.ID]*category.Category
}

var _ category.Gateway = (*CategoryGateway)(nil)

func NewCategoryGateway() *CategoryGateway {
	return &CategoryGateway{items: make(map[category.ID]*category.Category)}
}

func (g *CategoryGateway) Create(_ context.Context, c *category.Category) (*category.Category, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.items[c.ID()]; ok {
		return nil, apperrors.AlreadyExists("category", c.ID().Value())
	}
	g.items[c.ID()] = c
	return c, nil
}

func (g *CategoryGateway) Update(_ context.Context, c *category.Category) (*category.Category, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.items[c.ID()]; !ok {
		return nil, apperrors.NotFound("category", c.ID().Value())
	}
	g.items[c.ID()] = c
	return c, nil
}

func (g *CategoryGateway) DeleteByID(_ context.Context, id category.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.items, id)
	return nil
}

func (g *CategoryGateway) FindByID(_ context.Context, id category.ID) (*category.Category, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c, ok := g.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (g *CategoryGateway) FindAll(_ context.Context, q pagination.SearchQuery) (pagination.Pagination[*category.Category], error) {
	g.mu.RLock()
	matched := make([]*category.Category, 0, len(g.items))
	for _, c := range g.items {
		if !q.HasTerms() || containsFold(c.Name(), q.Terms) || containsFold(c.Description(), q.Terms) {
			matched = append(matched, c)
		}
	}
	g.mu.RUnlock()

	field := category.NormalizeSort(q.Sort)
	slices.SortFunc(matched, func(a, b *category.Category) int {
		var c int
		switch field {
		case category.SortDescription:
			c = compareText(a.Description(), b.Description())
		case category.SortCreatedAt:
			c = a.CreatedAt().Compare(b.CreatedAt())
		case category.SortUpdatedAt:
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

func (g *CategoryGateway) ExistsByIDs(_ context.Context, ids []category.ID) ([]category.ID, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	found := make([]category.ID, 0, len(ids))
	seen := make(map[category.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := g.items[id]; ok {
			found = append(found, id)
		}
	}
	return found, nil
}

// Len returns the number of stored categories.
func (g *CategoryGateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}

// compareText orders case-insensitively, then by byte order, matching the
// PostgreSQL gateways.
func compareText(a, b string) int {
	if c := cmp.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return cmp.Compare(a, b)
}

// tieBreak orders equal sort keys by creation time, then by ID.
func tieBreak(c int, createdA, createdB time.Time, idA, idB string) int {
	if c != 0 {
		return c
	}
	if c = createdA.Compare(createdB); c != 0 {
		return c
	}
	return cmp.Compare(idA, idB)
}
