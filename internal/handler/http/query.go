package http

import (
	"net/http"
	"strconv"

	"github.com/utafrali/catalog/pkg/pagination"
	"github.com/utafrali/catalog/pkg/validator"
)

// maxBodyBytes limits request bodies to 1MB.
const maxBodyBytes = 1 << 20

// rawPageParams checks the page parameters before they are converted. The
// length bounds keep strconv.Atoi from overflowing; searchParams checks the
// ranges.
type rawPageParams struct {
	Page    string `query:"page" validate:"omitempty,number,max=7"`
	PerPage string `query:"perPage" validate:"omitempty,number,max=3"`
}

// searchParams is the validated form of the list query string.
type searchParams struct {
	Page    int    `query:"page" validate:"gte=0,lte=1000000"`
	PerPage int    `query:"perPage" validate:"gte=1,lte=100"`
	Sort    string `query:"sort" validate:"max=64"`
	Dir     string `query:"dir" validate:"oneof=asc desc"`
}

// parseSearchQuery reads search, page, perPage, sort and dir from the query
// string. Out-of-range or malformed page parameters are rejected.
func parseSearchQuery(r *http.Request) (pagination.SearchQuery, error) {
	values := r.URL.Query()
	raw := rawPageParams{Page: values.Get("page"), PerPage: values.Get("perPage")}
	if raw.PerPage == "" {
		raw.PerPage = values.Get("per_page")
	}
	if err := validator.Validate(raw); err != nil {
		return pagination.SearchQuery{}, err
	}

	q := pagination.FromRequest(r)
	params := searchParams{
		Page:    q.Page,
		PerPage: q.PerPage,
		Sort:    q.Sort,
		Dir:     string(q.Direction),
	}
	if raw.Page != "" {
		params.Page, _ = strconv.Atoi(raw.Page)
	}
	if raw.PerPage != "" {
		params.PerPage, _ = strconv.Atoi(raw.PerPage)
	}
	if err := validator.Validate(params); err != nil {
		return pagination.SearchQuery{}, err
	}
	return q, nil
}

// isActive applies the API default: omitted means active.
func isActive(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
