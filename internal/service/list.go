package service

import (
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/repository"
)

const (
	// DefaultPageLimit is used when the limit is absent or malformed.
	DefaultPageLimit = 10
	// MaxPageLimit caps the page size a client may request.
	MaxPageLimit = 100
)

// PageQuery carries the raw pagination parameters of a list request.
type PageQuery struct {
	Page  string `query:"page"`
	Limit string `query:"limit"`
}

// NormalizePage converts raw page/limit values into a repository page.
// Missing, non-numeric or non-positive values fall back to page 1 and
// DefaultPageLimit; limits above MaxPageLimit are capped.
func NormalizePage(page, limit string) repository.Page {
	p := repository.Page{Number: 1, Limit: DefaultPageLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (q PageQuery) page() repository.Page {
	return NormalizePage(q.Page, q.Limit)
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ListResult is one page of items plus its pagination block.
type ListResult[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func newListResult[T any](items []T, total int64, page repository.Page) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return ListResult[T]{
		Items: items,
		Pagination: Pagination{
			Page:  page.Number,
			Limit: page.Limit,
			Total: total,
			Pages: pageCount(total, page.Limit),
		},
	}
}

// pageCount returns ceil(total/limit).
func pageCount(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// parseBool returns nil unless s is a recognised boolean, so that an
// unparseable filter is omitted rather than narrowing the result.
func parseBool(s string) *bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

// storeErr maps a repository failure onto the error taxonomy.
func storeErr(op string, err error, notFound error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.ErrDuplicate
	}
	return apperrors.Internal(fmt.Errorf("%s: %w", op, err))
}
