package pagination

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultQuery(t *testing.T) {
	q := DefaultQuery()
	assert.Equal(t, 0, q.Page)
	assert.Equal(t, DefaultPerPage, q.PerPage)
	assert.Equal(t, "name", q.Sort)
	assert.Equal(t, Asc, q.Direction)
	assert.Equal(t, 0, q.Offset())
	assert.NoError(t, q.Validate())
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	q := FromRequest(req)

	assert.Equal(t, DefaultQuery(), q)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/categories?search=Film&page=3&perPage=50&sort=createdAt&dir=DESC", nil)
	q := FromRequest(req)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 50, q.PerPage)
	assert.Equal(t, "Film", q.Terms)
	assert.Equal(t, "createdAt", q.Sort)
	assert.Equal(t, Desc, q.Direction)
	assert.Equal(t, 150, q.Offset())
	assert.True(t, q.Descending())
}

func TestFromRequest_SnakeCasePerPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/genres?per_page=25", nil)
	assert.Equal(t, 25, FromRequest(req).PerPage)
}

func TestFromRequest_InvalidNumbersFallBack(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"negative page", "page=-1"},
		{"page not a number", "page=abc"},
		{"per page zero", "perPage=0"},
		{"per page above cap", "perPage=" + strconv.Itoa(MaxPerPage+1)},
		{"page above cap", "page=" + strconv.Itoa(MaxPage+1)},
		{"page overflows int", "page=92233720368547758070"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/categories?"+tt.query, nil)
			q := FromRequest(req)
			assert.Equal(t, 0, q.Page)
			assert.Equal(t, DefaultPerPage, q.PerPage)
		})
	}
}

func TestSearchQuery_OffsetSaturates(t *testing.T) {
	q := SearchQuery{Page: math.MaxInt / 10, PerPage: 100}
	assert.Equal(t, math.MaxInt, q.Offset())

	q = SearchQuery{Page: MaxPage, PerPage: MaxPerPage}
	assert.Equal(t, MaxPage*MaxPerPage, q.Offset())
	assert.Empty(t, Window([]int{1, 2, 3}, SearchQuery{Page: math.MaxInt, PerPage: 2}))

	assert.Equal(t, 0, SearchQuery{Page: -1, PerPage: 10}.Offset())
}

func TestSearchQuery_HasTerms(t *testing.T) {
	assert.False(t, SearchQuery{Terms: ""}.HasTerms())
	assert.False(t, SearchQuery{Terms: "   "}.HasTerms())
	assert.True(t, SearchQuery{Terms: " act "}.HasTerms())
}

func TestSearchQuery_Validate(t *testing.T) {
	base := DefaultQuery()

	neg := base
	neg.Page = -1
	assert.Error(t, neg.Validate())

	zero := base
	zero.PerPage = 0
	assert.Error(t, zero.Validate())

	badDir := base
	badDir.Direction = "sideways"
	assert.Error(t, badDir.Validate())

	upper := base
	upper.Direction = "DESC"
	assert.NoError(t, upper.Validate())
}

func TestNew_NilItemsNormalized(t *testing.T) {
	p := New[string](2, 10, 0, nil)
	require.NotNil(t, p.Items)
	assert.Empty(t, p.Items)
	assert.Equal(t, 2, p.CurrentPage)
}

func TestEmpty(t *testing.T) {
	q := SearchQuery{Page: 4, PerPage: 15}
	p := Empty[int](q)

	assert.Equal(t, 4, p.CurrentPage)
	assert.Equal(t, 15, p.PerPage)
	assert.Equal(t, int64(0), p.Total)
	assert.Empty(t, p.Items)
}

func TestMap_PreservesMetadata(t *testing.T) {
	p := New(1, 2, 5, []int{10, 20})
	mapped := Map(p, func(v int) string { return strconv.Itoa(v * 2) })

	assert.Equal(t, 1, mapped.CurrentPage)
	assert.Equal(t, 2, mapped.PerPage)
	assert.Equal(t, int64(5), mapped.Total)
	assert.Equal(t, []string{"20", "40"}, mapped.Items)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, New[int](0, 10, 0, nil).TotalPages())
	assert.Equal(t, 1, New[int](0, 10, 10, nil).TotalPages())
	assert.Equal(t, 2, New[int](0, 10, 11, nil).TotalPages())
	assert.Equal(t, 0, New[int](0, 0, 11, nil).TotalPages())
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Window(items, SearchQuery{Page: 0, PerPage: 2}))
	assert.Equal(t, []int{5}, Window(items, SearchQuery{Page: 2, PerPage: 2}))
	assert.Empty(t, Window(items, SearchQuery{Page: 3, PerPage: 2}))
	assert.Empty(t, Window([]int{}, SearchQuery{Page: 0, PerPage: 2}))
}
