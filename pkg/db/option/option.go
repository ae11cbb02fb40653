package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QueryOption mutates a gorm query before execution.
type QueryOption func(tx *gorm.DB) *gorm.DB

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	// Allow whitelists sortable columns; anything else is ignored.
	Allow map[string]bool
}

func WithSortBy(sort QuerySortBy) QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		column := sort.SortBy
		if column == "" {
			column = "created_at"
		}
		if sort.Allow != nil && !sort.Allow[column] {
			return tx
		}

		order := strings.ToUpper(sort.OrderBy)
		if order != "ASC" && order != "DESC" {
			order = "ASC"
		}

		return tx.Order(fmt.Sprintf("%s %s", column, order))
	}
}

// WithLockingUpdate takes row-level FOR UPDATE locks for the duration of the
// surrounding transaction. No-op on sqlite, which serializes writers anyway.
func WithLockingUpdate() QueryOption {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}
