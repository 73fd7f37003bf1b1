package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds the normalized page/limit pair parsed from a request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page wraps a slice of results with the totals clients page through.
type Page[T any] struct {
	Count      int64 `json:"count"`
	TotalPages int   `json:"total_pages"`
	Data       []T   `json:"data"`
}

// FromRequest parses ?page= and ?limit= with clamped defaults.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	return Normalize(atoiDefault(q.Get("page"), DefaultPage), atoiDefault(q.Get("limit"), DefaultLimit))
}

// Normalize clamps page and limit to sane bounds.
func Normalize(page, limit int) Params {
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

// NewPage builds a Page envelope. TotalPages is a ceiling division so a
// partial final page still counts.
func NewPage[T any](data []T, count int64, params Params) Page[T] {
	totalPages := 0
	if count > 0 {
		totalPages = int(math.Ceil(float64(count) / float64(params.Limit)))
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Count:      count,
		TotalPages: totalPages,
		Data:       data,
	}
}

func atoiDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
