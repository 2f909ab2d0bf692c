package repository

import (
	"context"
	"errors"

	lidomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) lidomain.Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, li *lidomain.LineItem) error {
	return r.db.WithContext(ctx).Create(li).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*lidomain.LineItem, error) {
	var li lidomain.LineItem
	err := r.db.WithContext(ctx).First(&li, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, lidomain.ErrNotFound
		}
		return nil, err
	}
	return &li, nil
}

func (r *repository) ListByDocument(ctx context.Context, documentID int64) ([]lidomain.LineItem, error) {
	var items []lidomain.LineItem
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, li *lidomain.LineItem) error {
	return r.db.WithContext(ctx).Save(li).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&lidomain.LineItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lidomain.ErrNotFound
	}
	return nil
}
