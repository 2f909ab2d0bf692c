// Package seed bootstraps reference data for fresh installs.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"gorm.io/gorm"
)

const defaultSalesTaxName = "Sales Tax"

// EnsureDefaultTaxRules seeds a standard percentage sales tax rule when the
// table is empty, so a fresh install can price taxed line items immediately.
func EnsureDefaultTaxRules(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&taxdomain.TaxRule{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		rule := &taxdomain.TaxRule{
			ID:        node.Generate(),
			Name:      defaultSalesTaxName,
			Method:    taxdomain.TaxMethodPercentage,
			Rate:      decimal.NewFromFloat(8.25),
			IsEnabled: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.Create(rule).Error
	})
}
