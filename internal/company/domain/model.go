// Package domain contains persistence models for companies.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Company is a party documents are issued on behalf of. Registered companies
// carry an externally-assigned code; ad-hoc companies receive a generated
// temporary code.
type Company struct {
	ID      snowflake.ID `gorm:"primaryKey"`
	Name    string       `gorm:"type:text;not null;index"`
	Code    string       `gorm:"type:text;not null;uniqueIndex"`
	IsAdHoc bool         `gorm:"column:is_ad_hoc;not null;default:false"`

	Email   string `gorm:"type:text"`
	Phone   string `gorm:"type:text"`
	Address string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }
