// Package migration creates the schema on startup so the service is usable
// out of the box for local and self-hosted environments.
package migration

import (
	"errors"

	companydomain "github.com/smj9504/mj-estimate/internal/company/domain"
	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	lineitemdomain "github.com/smj9504/mj-estimate/internal/lineitem/domain"
	taxdomain "github.com/smj9504/mj-estimate/internal/tax/domain"
	"gorm.io/gorm"
)

func RunMigrations(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&companydomain.Company{},
		&documentdomain.Document{},
		&documentdomain.DocumentSequence{},
		&taxdomain.TaxRule{},
		&lineitemdomain.LineItem{},
	)
}
