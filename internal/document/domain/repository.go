package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the persistence collaborator for documents and their
// allocation counters. Methods composed inside a transaction via WithTrx are
// atomic together.
type Repository interface {
	WithTrx(tx *gorm.DB) Repository

	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id int64) (*Document, error)
	FindLatest(ctx context.Context, docType DocumentType, number string) (*Document, error)

	// FindLatestForUpdate behaves like FindLatest but takes a row lock on
	// dialects that support SELECT ... FOR UPDATE, serializing concurrent
	// revisions of the same chain.
	FindLatestForUpdate(ctx context.Context, docType DocumentType, number string) (*Document, error)
	List(ctx context.Context, filter ListFilter) ([]Document, error)

	// CountMatching counts documents of docType whose number matches the SQL
	// LIKE pattern. Used to seed a fresh counter from legacy records.
	CountMatching(ctx context.Context, docType DocumentType, pattern string) (int64, error)

	// ExistsLatest reports whether a latest-flagged record already carries
	// the composed number.
	ExistsLatest(ctx context.Context, docType DocumentType, number string) (bool, error)

	// Versions returns all version numbers recorded for the chain, ascending.
	Versions(ctx context.Context, docType DocumentType, number string) ([]int, error)

	// MarkAllNotLatest clears the is_latest flag on every member of the
	// chain. Only the versioning flow may call this.
	MarkAllNotLatest(ctx context.Context, docType DocumentType, number string) error

	// NextSequence atomically increments and returns the allocation counter
	// for (docType, companyCode), seeding it from seed()+1 when absent.
	NextSequence(ctx context.Context, docType DocumentType, companyCode string, seed func(ctx context.Context) (int64, error)) (int64, error)
}

// ListFilter narrows document listings.
type ListFilter struct {
	Type        DocumentType
	CompanyCode string
	Number      string
	LatestOnly  bool
	Limit       int
	Offset      int
}
