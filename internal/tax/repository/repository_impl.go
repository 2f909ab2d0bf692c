package repository

import (
	"context"

	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"github.com/smj9504/mj-estimate/pkg/db/option"
	pkgrepository "github.com/smj9504/mj-estimate/pkg/repository"
	"gorm.io/gorm"
)

type repository struct {
	store pkgrepository.Repository[taxdomain.TaxRule]
}

func NewRepository(conn *gorm.DB) taxdomain.Repository {
	return &repository{store: pkgrepository.ProvideStore[taxdomain.TaxRule](conn)}
}

func (r *repository) Create(ctx context.Context, rule *taxdomain.TaxRule) error {
	return r.store.Create(ctx, rule)
}

func (r *repository) FindByID(ctx context.Context, id int64) (*taxdomain.TaxRule, error) {
	rule, err := r.store.FindOne(ctx, &taxdomain.TaxRule{}, option.WithCondition("id = ?", id))
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, taxdomain.ErrNotFound
	}
	return rule, nil
}

func (r *repository) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.TaxRule, error) {
	filter := &taxdomain.TaxRule{
		Name:   req.Name,
		Method: taxdomain.TaxMethod(req.Method),
	}

	opts := []option.QueryOption{option.WithSortBy("", "", nil)}
	if req.IsEnabled != nil {
		opts = append(opts, option.WithCondition("is_enabled = ?", *req.IsEnabled))
	}

	rows, err := r.store.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	rules := make([]taxdomain.TaxRule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, *row)
	}
	return rules, nil
}

func (r *repository) Update(ctx context.Context, rule *taxdomain.TaxRule) error {
	return r.store.Save(ctx, rule)
}
