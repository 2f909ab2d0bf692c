package repository

import (
	"context"
	"errors"

	companydomain "github.com/smj9504/mj-estimate/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(conn *gorm.DB) companydomain.Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, company *companydomain.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

func (r *repository) FindByID(ctx context.Context, id int64) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).First(&company, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companydomain.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindByName(ctx context.Context, name string) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).First(&company, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*companydomain.Company, error) {
	var company companydomain.Company
	err := r.db.WithContext(ctx).First(&company, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}

func (r *repository) List(ctx context.Context, req companydomain.ListRequest) ([]companydomain.Company, error) {
	stmt := r.db.WithContext(ctx).Model(&companydomain.Company{})

	if req.Name != "" {
		stmt = stmt.Where("name = ?", req.Name)
	}
	if req.Code != "" {
		stmt = stmt.Where("code = ?", req.Code)
	}
	if req.IsAdHoc != nil {
		stmt = stmt.Where("is_ad_hoc = ?", *req.IsAdHoc)
	}
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}
	if req.Offset > 0 {
		stmt = stmt.Offset(req.Offset)
	}

	var companies []companydomain.Company
	if err := stmt.Order("name ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *repository) Update(ctx context.Context, company *companydomain.Company) error {
	return r.db.WithContext(ctx).Save(company).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&companydomain.Company{}, "id = ?", id).Error
}
