package domain

import "errors"

var (
	ErrNotFound            = errors.New("not_found")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidDocumentType = errors.New("invalid_document_type")
	ErrInvalidCompanyCode  = errors.New("invalid_company_code")

	// ErrAllocationConflict is returned when a composed number still collides
	// after the bounded retry loop. Surfaced to callers as a conflict, never
	// retried indefinitely.
	ErrAllocationConflict = errors.New("allocation_conflict")
)
