package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a normalized page request. Use New or Parse to build one.
type Params struct {
	Page  int
	Limit int
}

// New normalizes page and limit. Non-positive values fall back to the
// defaults and limit is capped at MaxLimit.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Parse reads page and limit from query string values. Unparsable values use the defaults.
func Parse(page, limit string) Params {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return New(p, l)
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block returned with every listing.
type Meta struct {
	TotalItems   int64 `json:"total_items"`
	TotalPages   int   `json:"total_pages"`
	CurrentPage  int   `json:"current_page"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNextPage  bool  `json:"has_next_page"`
	HasPrevPage  bool  `json:"has_prev_page"`
}

func NewMeta(p Params, totalItems int64) Meta {
	totalPages := int(math.Ceil(float64(totalItems) / float64(p.Limit)))
	return Meta{
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		CurrentPage:  p.Page,
		ItemsPerPage: p.Limit,
		HasNextPage:  p.Page < totalPages,
		HasPrevPage:  p.Page > 1,
	}
}
