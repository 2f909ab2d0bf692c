package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidCode = errors.New("invalid_code")
	ErrCodeTaken   = errors.New("code_taken")
)

// Service manages companies and their document-number codes.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	List(ctx context.Context, req ListRequest) ([]Company, error)
	Update(ctx context.Context, req UpdateRequest) (*Company, error)
	Delete(ctx context.Context, id string) error

	// CodeFor looks up the code for a registered company by name. A miss is
	// (_, false, nil), not an error.
	CodeFor(ctx context.Context, name string) (string, bool, error)

	// EnsureCode returns the company's registered code, registering an
	// ad-hoc company with a generated temporary code on a miss.
	EnsureCode(ctx context.Context, name string) (string, error)
}

type CreateRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateRequest struct {
	ID      string  `json:"id"`
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

type ListRequest struct {
	Name    string `form:"name"`
	Code    string `form:"code"`
	IsAdHoc *bool  `form:"is_ad_hoc"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// Repository is the persistence collaborator for companies.
type Repository interface {
	Create(ctx context.Context, company *Company) error
	FindByID(ctx context.Context, id int64) (*Company, error)
	FindByName(ctx context.Context, name string) (*Company, error)
	FindByCode(ctx context.Context, code string) (*Company, error)
	List(ctx context.Context, req ListRequest) ([]Company, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id int64) error
}
