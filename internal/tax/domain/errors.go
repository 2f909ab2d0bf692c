package domain

import "errors"

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidTaxMethod = errors.New("invalid_tax_method")
	ErrInvalidTaxRate   = errors.New("invalid_tax_rate")

	// ErrUnknownTaxMethod is returned when pricing meets a rule whose method
	// is outside the known set. The legacy system silently charged zero tax
	// here; that is a configuration error, not a discount.
	ErrUnknownTaxMethod = errors.New("unknown_tax_method")
)
