// Package domain contains persistence models for document line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// LineItemKind tags the pricing model of a line item. The two kinds are
// mutually exclusive; pricing code switches exhaustively on the tag so a new
// kind is a compile-visible change.
type LineItemKind string

const (
	// LineItemKindCatalog prices the item as the sum of named cost
	// components, Xactimate-style.
	LineItemKindCatalog LineItemKind = "catalog"
	// LineItemKindCustom carries a single authoritative flat price.
	LineItemKindCustom LineItemKind = "custom"
)

// LineItem is one priced line on a document.
//
// For catalog items UntaxedUnitPrice is derived, never authoritative: it is
// recomputed from the components on every create and update, and any
// client-submitted value is overwritten. For custom items it is the stored
// authoritative price.
type LineItem struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	DocumentID snowflake.ID `gorm:"not null;index"`

	Kind        LineItemKind `gorm:"type:text;not null"`
	Description string       `gorm:"type:text"`
	Quantity    int64        `gorm:"not null;default:1"`

	Labor           *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Material        *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Equipment       *decimal.Decimal `gorm:"type:numeric(12,2)"`
	LaborBurden     *decimal.Decimal `gorm:"column:labor_burden;type:numeric(12,2)"`
	MarketCondition *decimal.Decimal `gorm:"column:market_condition;type:numeric(12,2)"`

	UntaxedUnitPrice decimal.Decimal `gorm:"column:untaxed_unit_price;type:numeric(12,2);not null"`

	TaxRuleID *snowflake.ID   `gorm:"index"`
	TaxAmount decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2);not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (LineItem) TableName() string { return "line_items" }

// Components returns the named catalog components in a stable order.
func (li *LineItem) Components() []NamedComponent {
	return []NamedComponent{
		{"labor", li.Labor},
		{"material", li.Material},
		{"equipment", li.Equipment},
		{"labor_burden", li.LaborBurden},
		{"market_condition", li.MarketCondition},
	}
}

// NamedComponent pairs a component field name with its optional value.
type NamedComponent struct {
	Name  string
	Value *decimal.Decimal
}
