package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	companydomain "github.com/smj9504/mj-estimate/internal/company/domain"
	"github.com/smj9504/mj-estimate/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  companydomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  companydomain.Repository
}

func NewService(p ServiceParam) companydomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req companydomain.CreateRequest) (*companydomain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, companydomain.ErrInvalidName
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validCode(code) {
		return nil, companydomain.ErrInvalidCode
	}

	company := &companydomain.Company{
		ID:        s.genID.Generate(),
		Name:      name,
		Code:      code,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, companydomain.ErrCodeTaken
		}
		return nil, err
	}
	return company, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*companydomain.Company, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, companydomain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, int64(companyID))
}

func (s *Service) List(ctx context.Context, req companydomain.ListRequest) ([]companydomain.Company, error) {
	if req.Limit <= 0 || req.Limit > 250 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, req companydomain.UpdateRequest) (*companydomain.Company, error) {
	company, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, companydomain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		company.Address = strings.TrimSpace(*req.Address)
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return companydomain.ErrInvalidID
	}
	return s.repo.Delete(ctx, int64(companyID))
}

// CodeFor looks up the registered code for a company name. A miss returns
// ("", false, nil) so callers can decide whether to register an ad-hoc
// company.
func (s *Service) CodeFor(ctx context.Context, name string) (string, bool, error) {
	company, err := s.repo.FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", false, err
	}
	if company == nil {
		return "", false, nil
	}
	return company.Code, true, nil
}

// EnsureCode resolves a company name to a code, registering an ad-hoc
// company with a generated temporary code when the name is unknown. The
// generated code is re-rolled on a collision with an existing code.
func (s *Service) EnsureCode(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", companydomain.ErrInvalidName
	}

	code, ok, err := s.CodeFor(ctx, name)
	if err != nil {
		return "", err
	}
	if ok {
		return code, nil
	}

	const maxRolls = 10
	for i := 0; i < maxRolls; i++ {
		candidate := GenerateTempCode(name)
		company := &companydomain.Company{
			ID:        s.genID.Generate(),
			Name:      name,
			Code:      candidate,
			IsAdHoc:   true,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		err := s.repo.Create(ctx, company)
		if err == nil {
			s.log.Info("registered ad-hoc company",
				zap.String("name", name),
				zap.String("code", candidate),
			)
			return candidate, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return "", err
		}
	}
	return "", companydomain.ErrCodeTaken
}

func validCode(code string) bool {
	if len(code) < 2 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
