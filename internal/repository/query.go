package repository

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Page selects a window of a result set. Number is 1-based.
// A zero Limit means "no limit".
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

type scope = func(*gorm.DB) *gorm.DB

const (
	orderNewestFirst = "created_at DESC"
	orderDisplay     = "display_order ASC"
)

// listAndCount runs the page fetch and the total count concurrently. Both
// queries share the same scopes; no consistency between them is promised.
func listAndCount[T any](ctx context.Context, db *gorm.DB, scopes []scope, order []string, page Page) ([]T, int64, error) {
	var (
		items []T
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := db.WithContext(gctx).Model(new(T)).Scopes(scopes...)
		for _, o := range order {
			q = q.Order(o)
		}
		if page.Limit > 0 {
			q = q.Offset(page.Offset()).Limit(page.Limit)
		}
		return q.Find(&items).Error
	})
	g.Go(func() error {
		return db.WithContext(gctx).Model(new(T)).Scopes(scopes...).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	if items == nil {
		items = []T{}
	}
	return items, total, nil
}

// count returns the number of rows of T matching scopes.
func count[T any](ctx context.Context, db *gorm.DB, scopes []scope) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&total).Error
	return total, err
}

// countGrouped returns row counts of T keyed by the values of column.
func countGrouped[T any](ctx context.Context, db *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		GroupKey string
		Total    int64
	}
	err := db.WithContext(ctx).Model(new(T)).
		Select(column + " AS group_key, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.GroupKey] = r.Total
	}
	return out, nil
}

// equals filters column by exact value.
func equals(column string, value interface{}) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" = ?", value)
	}
}

// search matches term as a case-insensitive substring of any of columns.
func search(term string, columns ...string) scope {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, c := range columns {
		clauses[i] = "LOWER(" + c + ") LIKE ? ESCAPE '!'"
		args[i] = pattern
	}
	where := "(" + strings.Join(clauses, " OR ") + ")"

	return func(db *gorm.DB) *gorm.DB {
		return db.Where(where, args...)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
