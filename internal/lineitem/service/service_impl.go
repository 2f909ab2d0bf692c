package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	lidomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	"github.com/smj9504/mj-estimate/internal/lineitem/pricing"
	obsmetrics "github.com/smj9504/mj-estimate/internal/observability/metrics"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    lidomain.Repository
	TaxRepo taxdomain.Repository
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    lidomain.Repository
	taxRepo taxdomain.Repository
	metrics *obsmetrics.Metrics
}

func NewService(p ServiceParam) lidomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("lineitem.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		taxRepo: p.TaxRepo,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req lidomain.WriteRequest) (*lidomain.LineItem, error) {
	docID, err := snowflake.ParseString(strings.TrimSpace(req.DocumentID))
	if err != nil {
		return nil, lidomain.ErrInvalidID
	}

	li := &lidomain.LineItem{
		ID:         s.genID.Generate(),
		DocumentID: docID,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := applyWrite(li, req); err != nil {
		return nil, err
	}

	if err := s.price(ctx, li); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, li); err != nil {
		return nil, err
	}

	s.metrics.RecordLineItemPriced(ctx, string(li.Kind))
	s.log.Debug("line item created",
		zap.String("id", li.ID.String()),
		zap.String("document_id", li.DocumentID.String()),
		zap.String("kind", string(li.Kind)),
		zap.String("untaxed_unit_price", li.UntaxedUnitPrice.String()),
	)
	return li, nil
}

func (s *Service) Update(ctx context.Context, id string, req lidomain.WriteRequest) (*lidomain.LineItem, error) {
	li, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyWrite(li, req); err != nil {
		return nil, err
	}
	li.UpdatedAt = time.Now().UTC()

	// Pricing is never carried over from the previous revision of the item:
	// any component or tax change reprices the whole line.
	if err := s.price(ctx, li); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, li); err != nil {
		return nil, err
	}

	s.metrics.RecordLineItemPriced(ctx, string(li.Kind))
	return li, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*lidomain.LineItem, error) {
	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, lidomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, int64(itemID))
}

func (s *Service) ListByDocument(ctx context.Context, documentID string) ([]lidomain.LineItem, error) {
	docID, err := snowflake.ParseString(strings.TrimSpace(documentID))
	if err != nil {
		return nil, lidomain.ErrInvalidID
	}
	return s.repo.ListByDocument(ctx, int64(docID))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	itemID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return lidomain.ErrInvalidID
	}
	return s.repo.Delete(ctx, int64(itemID))
}

// price derives the authoritative untaxed price and the tax amount, in that
// order. Validation runs first so a bad write never reaches the database.
func (s *Service) price(ctx context.Context, li *lidomain.LineItem) error {
	if err := pricing.Validate(li); err != nil {
		return err
	}

	unit, err := pricing.DeriveUntaxedPrice(li)
	if err != nil {
		return err
	}
	li.UntaxedUnitPrice = unit

	rule, err := s.resolveTaxRule(ctx, li.TaxRuleID)
	if err != nil {
		return err
	}

	tax, err := pricing.ComputeTax(li, rule)
	if err != nil {
		return err
	}
	li.TaxAmount = tax
	return nil
}

func (s *Service) resolveTaxRule(ctx context.Context, id *snowflake.ID) (*taxdomain.TaxRule, error) {
	if id == nil {
		return nil, nil
	}
	rule, err := s.taxRepo.FindByID(ctx, int64(*id))
	if err != nil {
		if errors.Is(err, taxdomain.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", lidomain.ErrInvalidTaxRule, id.String())
		}
		return nil, err
	}
	if !rule.IsEnabled {
		return nil, fmt.Errorf("%w: %s is disabled", lidomain.ErrInvalidTaxRule, id.String())
	}
	return rule, nil
}

func applyWrite(li *lidomain.LineItem, req lidomain.WriteRequest) error {
	li.Kind = lidomain.LineItemKind(strings.ToLower(strings.TrimSpace(string(req.Kind))))
	li.Description = strings.TrimSpace(req.Description)
	li.Quantity = req.Quantity

	li.Labor = req.Labor
	li.Material = req.Material
	li.Equipment = req.Equipment
	li.LaborBurden = req.LaborBurden
	li.MarketCondition = req.MarketCondition

	if req.UntaxedUnitPrice != nil {
		li.UntaxedUnitPrice = *req.UntaxedUnitPrice
	}

	li.TaxRuleID = nil
	if req.TaxRuleID != nil {
		ruleID, err := snowflake.ParseString(strings.TrimSpace(*req.TaxRuleID))
		if err != nil {
			return fmt.Errorf("%w: %s", lidomain.ErrInvalidTaxRule, *req.TaxRuleID)
		}
		li.TaxRuleID = &ruleID
	}
	return nil
}
