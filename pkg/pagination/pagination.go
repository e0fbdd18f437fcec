package pagination

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// Direction is the sort direction of a search query.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
	MaxPage        = 1_000_000
	DefaultSort    = "name"
)

// SearchQuery is the list-query contract shared by every listing use case
// and honored by the storage gateways. Page is zero-based.
type SearchQuery struct {
	Page      int       `json:"page"`
	PerPage   int       `json:"per_page"`
	Terms     string    `json:"terms"`
	Sort      string    `json:"sort"`
	Direction Direction `json:"direction"`
}

// DefaultQuery returns the first page sorted by name ascending.
func DefaultQuery() SearchQuery {
	return SearchQuery{
		Page:      0,
		PerPage:   DefaultPerPage,
		Sort:      DefaultSort,
		Direction: Asc,
	}
}

// Offset returns the number of rows to skip for the query's page. It
// saturates at math.MaxInt instead of overflowing.
func (q SearchQuery) Offset() int {
	if q.Page <= 0 || q.PerPage <= 0 {
		return 0
	}
	if q.Page > math.MaxInt/q.PerPage {
		return math.MaxInt
	}
	return q.Page * q.PerPage
}

// HasTerms reports whether the free-text filter is non-blank.
func (q SearchQuery) HasTerms() bool {
	return strings.TrimSpace(q.Terms) != ""
}

// Descending reports whether results are ordered descending.
func (q SearchQuery) Descending() bool {
	return strings.EqualFold(string(q.Direction), string(Desc))
}

// Validate checks the structural constraints of the query.
func (q SearchQuery) Validate() error {
	if q.Page < 0 {
		return fmt.Errorf("page must not be negative, got %d", q.Page)
	}
	if q.PerPage <= 0 {
		return fmt.Errorf("per page must be positive, got %d", q.PerPage)
	}
	switch Direction(strings.ToLower(string(q.Direction))) {
	case Asc, Desc:
	default:
		return fmt.Errorf("direction must be %q or %q, got %q", Asc, Desc, q.Direction)
	}
	return nil
}

// FromRequest extracts a search query from the HTTP request query string.
// Accepted parameters: search, page, perPage (or per_page), sort, dir.
// Malformed or out-of-range numbers fall back to the defaults.
func FromRequest(r *http.Request) SearchQuery {
	q := DefaultQuery()
	values := r.URL.Query()

	if page := values.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v >= 0 && v <= MaxPage {
			q.Page = v
		}
	}

	perPage := values.Get("perPage")
	if perPage == "" {
		perPage = values.Get("per_page")
	}
	if perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			q.PerPage = v
		}
	}

	q.Terms = values.Get("search")

	if sort := strings.TrimSpace(values.Get("sort")); sort != "" {
		q.Sort = sort
	}

	if dir := strings.TrimSpace(values.Get("dir")); dir != "" {
		q.Direction = Direction(strings.ToLower(dir))
	}

	return q
}

// Pagination is a page of results together with its page metadata.
type Pagination[T any] struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	Items       []T   `json:"items"`
}

// New creates a page. A nil item slice is normalized to an empty one.
func New[T any](currentPage, perPage int, total int64, items []T) Pagination[T] {
	if items == nil {
		items = []T{}
	}
	return Pagination[T]{
		CurrentPage: currentPage,
		PerPage:     perPage,
		Total:       total,
		Items:       items,
	}
}

// Empty returns a page with no items for the given query.
func Empty[T any](q SearchQuery) Pagination[T] {
	return New[T](q.Page, q.PerPage, 0, nil)
}

// Map projects every item of the page while preserving the page metadata.
func Map[T, U any](p Pagination[T], fn func(T) U) Pagination[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Pagination[U]{
		CurrentPage: p.CurrentPage,
		PerPage:     p.PerPage,
		Total:       p.Total,
		Items:       items,
	}
}

// TotalPages returns the number of pages needed to hold Total items.
func (p Pagination[T]) TotalPages() int {
	if p.PerPage <= 0 {
		return 0
	}
	pages := int(p.Total / int64(p.PerPage))
	if p.Total%int64(p.PerPage) > 0 {
		pages++
	}
	return pages
}

// Window returns the slice of items that falls on the query's page.
func Window[T any](items []T, q SearchQuery) []T {
	start := q.Offset()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	end := start + q.PerPage
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
