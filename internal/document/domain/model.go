// Package domain contains persistence models for document numbering.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DocumentType identifies a document category with its own prefix and
// sequence space.
type DocumentType string

const (
	DocumentTypeInvoice           DocumentType = "invoice"
	DocumentTypeEstimate          DocumentType = "estimate"
	DocumentTypePlumberReport     DocumentType = "plumber_report"
	DocumentTypeInsuranceEstimate DocumentType = "insurance_estimate"
	DocumentTypeWorkOrder         DocumentType = "work_order"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeEstimate, DocumentTypePlumberReport,
		DocumentTypeInsuranceEstimate, DocumentTypeWorkOrder:
		return true
	}
	return false
}

// DocumentStatus represents document lifecycle states.
type DocumentStatus string

const (
	DocumentStatusDraft  DocumentStatus = "DRAFT"
	DocumentStatusIssued DocumentStatus = "ISSUED"
	DocumentStatusVoid   DocumentStatus = "VOID"
)

// Document represents one version of a numbered business document.
// All versions sharing the same (type, number) form a version chain; at most
// one member of a chain carries is_latest = true, enforced by the partial
// unique index and by the versioning flow being the only writer of the flag.
type Document struct {
	ID            snowflake.ID      `gorm:"primaryKey"`
	Type          DocumentType      `gorm:"type:text;not null;index;uniqueIndex:ux_documents_latest_number,priority:1"`
	Number        string            `gorm:"type:text;not null;uniqueIndex:ux_documents_latest_number,priority:2,where:is_latest"`
	Version       int               `gorm:"not null;default:1"`
	IsLatest      bool              `gorm:"column:is_latest;not null;default:true"`
	CompanyCode   string            `gorm:"type:text;not null;index"`
	ClientAddress string            `gorm:"type:text;not null"`
	ClientName    string            `gorm:"type:text"`
	Status        DocumentStatus    `gorm:"type:text;not null;default:'DRAFT'"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// DocumentSequence is the atomic per-(type, company) allocation counter.
// Incremented with a single UPDATE so concurrent allocations never observe
// the same value.
type DocumentSequence struct {
	DocType     DocumentType `gorm:"column:doc_type;primaryKey;type:text"`
	CompanyCode string       `gorm:"column:company_code;primaryKey;type:text"`
	NextValue   int64        `gorm:"column:next_value;not null"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DocumentSequence) TableName() string { return "document_sequences" }
