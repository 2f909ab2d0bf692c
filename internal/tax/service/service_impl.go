package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  taxdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  taxdomain.Repository
}

func NewService(p ServiceParam) taxdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req taxdomain.CreateRequest) (*taxdomain.TaxRule, error) {
	rule := &taxdomain.TaxRule{
		ID:          s.genID.Generate(),
		Name:        strings.TrimSpace(req.Name),
		Method:      taxdomain.TaxMethod(strings.ToLower(strings.TrimSpace(string(req.Method)))),
		Rate:        req.Rate,
		Description: req.Description,
		IsEnabled:   true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*taxdomain.TaxRule, error) {
	ruleID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, taxdomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, int64(ruleID))
}

func (s *Service) List(ctx context.Context, req taxdomain.ListRequest) ([]taxdomain.TaxRule, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, req taxdomain.UpdateRequest) (*taxdomain.TaxRule, error) {
	rule, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if req.Rate != nil {
		rule.Rate = *req.Rate
	}
	if req.Description != nil {
		rule.Description = req.Description
	}
	rule.UpdatedAt = time.Now().UTC()

	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

func (s *Service) Disable(ctx context.Context, id string) (*taxdomain.TaxRule, error) {
	rule, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rule.IsEnabled = false
	rule.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}
