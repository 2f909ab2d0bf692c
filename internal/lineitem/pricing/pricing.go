// Package pricing holds the pure pricing rules for line items. Nothing in
// here touches the database; callers resolve the tax rule first and pass it
// in, which keeps every rule testable with plain values.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	lidomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
)

var hundred = decimal.NewFromInt(100)

// Validate rejects a line item whose monetary inputs are negative. Every
// offending field is reported, not just the first one found.
func Validate(li *lidomain.LineItem) error {
	var fields []lidomain.FieldError

	switch li.Kind {
	case lidomain.LineItemKindCatalog:
		for _, c := range li.Components() {
			if c.Value != nil && c.Value.IsNegative() {
				fields = append(fields, lidomain.FieldError{
					Field:   c.Name,
					Message: "must not be negative",
				})
			}
		}
	case lidomain.LineItemKindCustom:
		if li.UntaxedUnitPrice.IsNegative() {
			fields = append(fields, lidomain.FieldError{
				Field:   "untaxed_unit_price",
				Message: "must not be negative",
			})
		}
	default:
		return fmt.Errorf("%w: %q", lidomain.ErrInvalidKind, li.Kind)
	}

	if li.Quantity < 1 {
		fields = append(fields, lidomain.FieldError{
			Field:   "quantity",
			Message: "must be at least 1",
		})
	}

	if len(fields) > 0 {
		return &lidomain.ValidationError{Fields: fields}
	}
	return nil
}

// DeriveUntaxedPrice computes the authoritative untaxed unit price. Catalog
// items are always the sum of their present components; a client-submitted
// price is ignored. Custom items keep the stored price as-is.
func DeriveUntaxedPrice(li *lidomain.LineItem) (decimal.Decimal, error) {
	switch li.Kind {
	case lidomain.LineItemKindCatalog:
		sum := decimal.Zero
		for _, c := range li.Components() {
			if c.Value != nil {
				sum = sum.Add(*c.Value)
			}
		}
		return sum, nil
	case lidomain.LineItemKindCustom:
		return li.UntaxedUnitPrice, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", lidomain.ErrInvalidKind, li.Kind)
	}
}

// ComputeTax applies rule to the line item. A nil rule means no tax.
//
// Percentage rules tax the material component for catalog items and the
// untaxed unit price for custom items, rounded half-up to cents. Specific
// rules charge the rate verbatim regardless of kind. An unrecognized method
// is a configuration error, never a zero charge.
func ComputeTax(li *lidomain.LineItem, rule *taxdomain.TaxRule) (decimal.Decimal, error) {
	if rule == nil {
		return decimal.Zero, nil
	}

	switch rule.Method {
	case taxdomain.TaxMethodPercentage:
		base := TaxableBase(li)
		return base.Mul(rule.Rate).Div(hundred).Round(2), nil
	case taxdomain.TaxMethodSpecific:
		return rule.Rate, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", taxdomain.ErrUnknownTaxMethod, rule.Method)
	}
}

// TaxableBase returns the amount a percentage rule applies to: the material
// component for catalog items, the untaxed unit price for custom items.
func TaxableBase(li *lidomain.LineItem) decimal.Decimal {
	if li.Kind == lidomain.LineItemKindCatalog {
		if li.Material == nil {
			return decimal.Zero
		}
		return *li.Material
	}
	return li.UntaxedUnitPrice
}
