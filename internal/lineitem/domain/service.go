package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service manages line items and their server-side pricing.
type Service interface {
	Create(ctx context.Context, req WriteRequest) (*LineItem, error)
	Update(ctx context.Context, id string, req WriteRequest) (*LineItem, error)
	GetByID(ctx context.Context, id string) (*LineItem, error)
	ListByDocument(ctx context.Context, documentID string) ([]LineItem, error)
	Delete(ctx context.Context, id string) error
}

// WriteRequest carries client-submitted line item fields. UntaxedUnitPrice
// is only honored for custom items; catalog items always derive it from the
// components.
type WriteRequest struct {
	DocumentID  string       `json:"document_id"`
	Kind        LineItemKind `json:"kind"`
	Description string       `json:"description"`
	Quantity    int64        `json:"quantity"`

	Labor           *decimal.Decimal `json:"labor,omitempty"`
	Material        *decimal.Decimal `json:"material,omitempty"`
	Equipment       *decimal.Decimal `json:"equipment,omitempty"`
	LaborBurden     *decimal.Decimal `json:"labor_burden,omitempty"`
	MarketCondition *decimal.Decimal `json:"market_condition,omitempty"`

	UntaxedUnitPrice *decimal.Decimal `json:"untaxed_unit_price,omitempty"`

	TaxRuleID *string `json:"tax_rule_id,omitempty"`
}
