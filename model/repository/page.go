package repository

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a 1-based page request.
type Page struct {
	Page  int
	Limit int
}

// ParsePage reads page/limit query values, falling back to defaults on
// missing or malformed input.
func ParsePage(page, limit string) Page {
	p, _ := strconv.Atoi(page)
	l, _ := strconv.Atoi(limit)
	return Page{Page: p, Limit: l}.Normalize()
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the paging block returned with list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

func (p Page) Result(total int64) Pagination {
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(p.Limit))),
	}
}

// Like wraps s for a case-insensitive contains match against LOWER(column).
func Like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
