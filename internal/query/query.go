// Package query translates the generic search/sort/paginate parameters of
// list endpoints into bounded SQL fragments plus pagination metadata.
package query

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidSortField is returned when sort_by names a field outside the
// entity's allow-list. The whole request is rejected, never partially honored.
var ErrInvalidSortField = errors.New("invalid sort field")

// MaxLimit is the hard ceiling on page size across all list endpoints.
const MaxLimit = 100

// Pagination metadata response headers.
const (
	HeaderTotalCount         = "Total-Count"
	HeaderTotalCountFiltered = "Total-Count-Filtered"
	HeaderPaginationPages    = "Pagination-Pages"
)

// Params are the generic listing parameters taken from the query string.
type Params struct {
	Search string
	SortBy string
	Offset int
	Limit  int
}

// ParseParams extracts listing parameters, applying the endpoint's default
// limit and clamping to MaxLimit. Non-numeric or negative offset/limit values
// fall back to defaults.
func ParseParams(values url.Values, defaultLimit int) Params {
	p := Params{
		Search: strings.TrimSpace(values.Get("search")),
		SortBy: strings.TrimSpace(values.Get("sort_by")),
		Limit:  defaultLimit,
	}
	if v := strings.TrimSpace(values.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > MaxLimit {
				n = MaxLimit
			}
			p.Limit = n
		}
	}
	if v := strings.TrimSpace(values.Get("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			p.Offset = n
		}
	}
	return p
}

// Definition declares, per entity, which fields may be searched and sorted.
// Sort fields are an explicit allow-list from request field name to column
// expression; anything else is rejected wholesale.
type Definition struct {
	SearchColumns []string
	SortFields    map[string]string
	DefaultSort   string
}

// SearchClause returns a WHERE fragment matching the search term
// case-insensitively against the allow-listed columns, plus its bind
// arguments. An empty search yields an empty clause.
func (d Definition) SearchClause(search string) (string, []any) {
	if search == "" || len(d.SearchColumns) == 0 {
		return "", nil
	}
	preds := make([]string, 0, len(d.SearchColumns))
	for _, col := range d.SearchColumns {
		preds = append(preds, col+" ILIKE $1")
	}
	return " WHERE (" + strings.Join(preds, " OR ") + ")", []any{"%" + search + "%"}
}

// OrderByClause validates the comma-separated sort specification and builds
// a stable multi-key ORDER BY fragment. Terms apply left to right; a leading
// '-' means descending. With no sort_by the entity's primary key ascending
// keeps output deterministic.
func (d Definition) OrderByClause(sortBy string) (string, error) {
	if sortBy == "" {
		return d.DefaultSort + " ASC", nil
	}

	terms := strings.Split(sortBy, ",")
	parts := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		dir := "ASC"
		if strings.HasPrefix(term, "-") {
			dir = "DESC"
			term = term[1:]
		}
		col, ok := d.SortFields[term]
		if !ok {
			return "", ErrInvalidSortField
		}
		parts = append(parts, col+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

// LimitOffsetClause renders the pagination tail of the page query.
func LimitOffsetClause(p Params) string {
	return fmt.Sprintf(" LIMIT %d OFFSET %d", p.Limit, p.Offset)
}

// Pages computes the page count as ceil(total/limit).
func Pages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// SetPaginationHeaders exposes the counts on the response so clients can
// page without changes to the body schema.
func SetPaginationHeaders(w http.ResponseWriter, total, filtered, limit int) {
	w.Header().Set(HeaderTotalCount, strconv.Itoa(total))
	w.Header().Set(HeaderTotalCountFiltered, strconv.Itoa(filtered))
	w.Header().Set(HeaderPaginationPages, strconv.Itoa(Pages(total, limit)))
}
