package domain

import "context"

// Repository is the persistence collaborator for line items.
type Repository interface {
	Create(ctx context.Context, li *LineItem) error
	FindByID(ctx context.Context, id int64) (*LineItem, error)
	ListByDocument(ctx context.Context, documentID int64) ([]LineItem, error)
	Update(ctx context.Context, li *LineItem) error
	Delete(ctx context.Context, id int64) error
}
