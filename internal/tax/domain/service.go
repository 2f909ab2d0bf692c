package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service manages tax rule definitions.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TaxRule, error)
	GetByID(ctx context.Context, id string) (*TaxRule, error)
	List(ctx context.Context, req ListRequest) ([]TaxRule, error)
	Update(ctx context.Context, req UpdateRequest) (*TaxRule, error)
	Disable(ctx context.Context, id string) (*TaxRule, error)
}

type CreateRequest struct {
	Name        string          `json:"name"`
	Method      TaxMethod       `json:"method"`
	Rate        decimal.Decimal `json:"rate"`
	Description *string         `json:"description"`
}

type UpdateRequest struct {
	ID          string           `json:"id"`
	Name        *string          `json:"name,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	Description *string          `json:"description,omitempty"`
}

type ListRequest struct {
	Name      string `form:"name"`
	Method    string `form:"method"`
	IsEnabled *bool  `form:"is_enabled"`
}

// Repository is the persistence collaborator for tax rules.
type Repository interface {
	Create(ctx context.Context, rule *TaxRule) error
	FindByID(ctx context.Context, id int64) (*TaxRule, error)
	List(ctx context.Context, req ListRequest) ([]TaxRule, error)
	Update(ctx context.Context, rule *TaxRule) error
}
