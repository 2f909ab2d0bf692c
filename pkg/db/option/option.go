// Package option provides composable gorm query modifiers.
package option

import (
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type optionFunc func(db *gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithLimit caps the result set size.
func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}

// WithOffset skips the first offset rows.
func WithOffset(offset int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return db
		}
		return db.Offset(offset)
	})
}

// WithSortBy orders by the requested column when it is in the allow list;
// direction is "asc" unless "desc" is requested. Disallowed columns fall
// back to created_at descending.
func WithSortBy(sortBy, orderBy string, allow map[string]bool) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.TrimSpace(sortBy)
		if column == "" || !allow[column] {
			return db.Order("created_at DESC")
		}
		direction := "ASC"
		if strings.EqualFold(strings.TrimSpace(orderBy), "desc") {
			direction = "DESC"
		}
		return db.Order(column + " " + direction)
	})
}

// WithCondition appends a raw conditional clause with arguments.
func WithCondition(query string, args ...any) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}
