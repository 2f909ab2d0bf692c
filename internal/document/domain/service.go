package domain

import "context"

// Service manages document creation, number allocation, and versioning.
type Service interface {
	// Create allocates a unique document number and persists the first
	// version of the document.
	Create(ctx context.Context, req CreateRequest) (*Document, error)

	// Revise supersedes every prior version of the chain and persists a new
	// latest version. The flag flip and the insert run in one transaction.
	Revise(ctx context.Context, req ReviseRequest) (*Document, error)

	GetByID(ctx context.Context, id string) (*Document, error)
	GetLatest(ctx context.Context, docType DocumentType, number string) (*Document, error)
	List(ctx context.Context, req ListRequest) ([]Document, error)

	// AllocateNumber composes the next unique number for (docType,
	// companyCode) without persisting a document.
	AllocateNumber(ctx context.Context, docType DocumentType, clientAddress, companyCode string) (string, error)

	// LatestVersion returns the highest version in the chain, or 0 when the
	// chain has no members yet.
	LatestVersion(ctx context.Context, docType DocumentType, number string) (int, error)
}

type CreateRequest struct {
	Type          DocumentType   `json:"type"`
	CompanyCode   string         `json:"company_code"`
	ClientAddress string         `json:"client_address"`
	ClientName    string         `json:"client_name"`
	Metadata      map[string]any `json:"metadata"`
}

type ReviseRequest struct {
	Type   DocumentType `json:"type"`
	Number string       `json:"number"`
}

type ListRequest struct {
	Type        DocumentType `form:"type"`
	CompanyCode string       `form:"company_code"`
	Number      string       `form:"number"`
	LatestOnly  bool         `form:"latest_only"`
	Limit       int          `form:"limit"`
	Offset      int          `form:"offset"`
}
