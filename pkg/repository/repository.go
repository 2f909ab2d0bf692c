// Package repository provides a generic gorm-backed store.
package repository

import (
	"context"

	"github.com/smj9504/mj-estimate/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is a generic persistence interface over a single model type.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID string, resource any) error
	// Save writes every field of resource, including zero values.
	Save(ctx context.Context, resource *T) error
	Delete(ctx context.Context, resourceID string) error
	Count(ctx context.Context, query *T) (int64, error)
}
