package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smj9504/mj-estimate/internal/config"
	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	obsmetrics "github.com/smj9504/mj-estimate/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      documentdomain.Repository
	Numbering *config.NumberingConfigHolder
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID     *snowflake.Node
	repo      documentdomain.Repository
	numbering *config.NumberingConfigHolder
	metrics   *obsmetrics.Metrics
}

func NewService(p ServiceParam) documentdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("document.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		numbering: p.Numbering,
		metrics:   p.Metrics,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*documentdomain.Document, error) {
	docID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, documentdomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, int64(docID))
}

func (s *Service) GetLatest(ctx context.Context, docType documentdomain.DocumentType, number string) (*documentdomain.Document, error) {
	return s.repo.FindLatest(ctx, docType, strings.TrimSpace(number))
}

func (s *Service) List(ctx context.Context, req documentdomain.ListRequest) ([]documentdomain.Document, error) {
	limit := req.Limit
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	return s.repo.List(ctx, documentdomain.ListFilter{
		Type:        req.Type,
		CompanyCode: strings.TrimSpace(req.CompanyCode),
		Number:      strings.TrimSpace(req.Number),
		LatestOnly:  req.LatestOnly,
		Limit:       limit,
		Offset:      req.Offset,
	})
}

// validCompanyCode enforces the 2-5 alphanumeric company segment of the
// number format.
func validCompanyCode(code string) bool {
	if len(code) < 2 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
