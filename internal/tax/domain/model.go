// Package domain contains tax rule definitions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// TaxMethod represents how a rule derives the tax amount.
type TaxMethod string

const (
	// TaxMethodPercentage applies Rate as a percent of the taxable base.
	TaxMethodPercentage TaxMethod = "percentage"
	// TaxMethodSpecific charges Rate verbatim as an absolute amount.
	TaxMethodSpecific TaxMethod = "specific"
)

// TaxRule is a value describing a tax method and rate.
// NOTE: method is engine-facing and immutable once referenced by line items;
// name/description are UI-facing and editable.
type TaxRule struct {
	ID snowflake.ID `gorm:"primaryKey"`

	Name   string          `gorm:"type:text;not null"`
	Method TaxMethod       `gorm:"type:text;not null"`
	Rate   decimal.Decimal `gorm:"type:numeric(12,4);not null"`

	Description *string `gorm:"type:text"`
	IsEnabled   bool    `gorm:"column:is_enabled;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TaxRule) TableName() string { return "tax_rules" }

var percentCeiling = decimal.NewFromInt(100)

func (t *TaxRule) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	switch t.Method {
	case TaxMethodPercentage:
		if t.Rate.IsNegative() || t.Rate.GreaterThan(percentCeiling) {
			return ErrInvalidTaxRate
		}
	case TaxMethodSpecific:
		if t.Rate.IsNegative() {
			return ErrInvalidTaxRate
		}
	default:
		return ErrInvalidTaxMethod
	}
	return nil
}
