package listing

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize inside a Postgres bigint OFFSET.
	MaxPage         = math.MaxInt32
)

type SortMode string

const (
	SortNewest   SortMode = "newest"
	SortNameDesc SortMode = "nameDesc"
	SortDateAsc  SortMode = "dateAsc"
)

// ParseSortMode never fails: anything unrecognized means newest first.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortNameDesc:
		return SortNameDesc
	case SortDateAsc:
		return SortDateAsc
	}
	return SortNewest
}

// Query is the normalized form of ?page=&limit=&search=&sort=.
// Page and PageSize are always positive.
type Query struct {
	Search   string
	Sort     SortMode
	Page     int
	PageSize int
}

func ParseQuery(page, limit, search, sort string) Query {
	return Query{
		Search:   strings.TrimSpace(search),
		Sort:     ParseSortMode(sort),
		Page:     min(positiveOr(page, DefaultPage), MaxPage),
		PageSize: positiveOr(limit, DefaultPageSize),
	}
}

func positiveOr(raw string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Clamped bounds PageSize to max and Page to MaxPage. The SQL layer trusts whatever it is given.
func (q Query) Clamped(max int) Query {
	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > max {
		q.PageSize = max
	}
	return q
}

type Page[T any] struct {
	Items        []T `json:"items"`
	TotalResults int `json:"totalResults"`
	PageSize     int `json:"pageSize"`
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
}

func NewPage[T any](items []T, total int, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:        items,
		TotalResults: total,
		PageSize:     q.PageSize,
		CurrentPage:  q.Offset()/q.PageSize + 1,
		TotalPages:   TotalPages(total, q.PageSize),
	}
}

// Single wraps an unpaginated result as one page holding everything.
func Single[T any](items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{Items: items, TotalResults: len(items), PageSize: len(items), CurrentPage: 1}
	if len(items) > 0 {
		p.TotalPages = 1
	}
	return p
}

func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Items))
	for i, it := range p.Items {
		out[i] = fn(it)
	}
	return Page[U]{
		Items:        out,
		TotalResults: p.TotalResults,
		PageSize:     p.PageSize,
		CurrentPage:  p.CurrentPage,
		TotalPages:   p.TotalPages,
	}
}
