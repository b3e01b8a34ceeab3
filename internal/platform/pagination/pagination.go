// Package pagination holds page requests and paginated results.
package pagination

import (
	"strings"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Request describes a page of a sorted, optionally filtered listing. Page is zero-based.
type Request struct {
	Page      int
	Size      int
	Sort      string
	Direction string
	Search    string
}

// Normalize clamps page and size, and falls back to defaultSort when the requested
// sort field is not in allowed.
func (r Request) Normalize(allowed []string, defaultSort string) Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size < 1 {
		r.Size = DefaultSize
	}
	if r.Size > MaxSize {
		r.Size = MaxSize
	}

	sort := strings.ToLower(strings.TrimSpace(r.Sort))
	r.Sort = defaultSort
	for _, a := range allowed {
		if a == sort {
			r.Sort = sort
			break
		}
	}

	if strings.EqualFold(r.Direction, "desc") {
		r.Direction = "desc"
	} else {
		r.Direction = "asc"
	}
	r.Search = strings.TrimSpace(r.Search)
	return r
}

// Offset returns the number of rows to skip.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// OrderClause returns "<sort> <direction>" for use in ORDER BY.
func (r Request) OrderClause() string {
	return r.Sort + " " + r.Direction
}

// Result is one page of items plus the metadata needed to navigate.
type Result[T any] struct {
	Items      []T    `json:"content"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	Total      int64  `json:"total_elements"`
	TotalPages int    `json:"total_pages"`
	First      bool   `json:"first"`
	Last       bool   `json:"last"`
	Empty      bool   `json:"empty"`
	Sort       string `json:"sort"`
	Direction  string `json:"direction"`
}

// NewResult builds a Result for items fetched with req out of total rows.
func NewResult[T any](items []T, total int64, req Request) Result[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Result[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		Total:      total,
		TotalPages: totalPages,
		First:      req.Page == 0,
		Last:       req.Page >= totalPages-1,
		Empty:      len(items) == 0,
		Sort:       req.Sort,
		Direction:  req.Direction,
	}
}

// Map converts the items of a Result while keeping its metadata.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	out := make([]U, len(r.Items))
	for i, item := range r.Items {
		out[i] = fn(item)
	}
	return Result[U]{
		Items:      out,
		Page:       r.Page,
		Size:       r.Size,
		Total:      r.Total,
		TotalPages: r.TotalPages,
		First:      r.First,
		Last:       r.Last,
		Empty:      r.Empty,
		Sort:       r.Sort,
		Direction:  r.Direction,
	}
}
