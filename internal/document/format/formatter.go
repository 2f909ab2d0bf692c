// Package format composes and parses human-readable document numbers.
//
// The wire format is PREFIX-SSSS-CCCC-N: a 2-4 letter type prefix, exactly
// four street digits, a 2-5 character company code, and a decimal sequence
// with no leading zeros. The format is persisted and displayed to end users
// and must round-trip through Parse/Compose without loss.
package format

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/smj9504/mj-estimate/internal/document/domain"
)

var ErrInvalidFormat = errors.New("invalid_document_number")

var digitRunRe = regexp.MustCompile(`\d+`)

// streetTokenLen is fixed by the number format contract.
const streetTokenLen = 4

// prefixes maps each document type to its own fixed number prefix.
var prefixes = map[domain.DocumentType]string{
	domain.DocumentTypeInvoice:           "INV",
	domain.DocumentTypeEstimate:          "EST",
	domain.DocumentTypePlumberReport:     "PLM",
	domain.DocumentTypeInsuranceEstimate: "INS",
	domain.DocumentTypeWorkOrder:         "WO",
}

// FallbackPrefix is used for unrecognized document types. Reaching it means
// a caller passed a type outside the fixed table; allocation proceeds so a
// bad request never crashes document creation.
const FallbackPrefix = "DOC"

// PrefixFor resolves the number prefix for a document type. Entries in
// overrides take precedence over the built-in table.
func PrefixFor(docType domain.DocumentType, overrides map[string]string) string {
	if overrides != nil {
		if p, ok := overrides[string(docType)]; ok && p != "" {
			return strings.ToUpper(strings.TrimSpace(p))
		}
	}
	if p, ok := prefixes[docType]; ok {
		return p
	}
	return FallbackPrefix
}

// StreetToken derives the 4-digit street fragment from a free-text address:
// the first maximal run of digits, truncated to its last 4 digits or
// left-padded with zeros, and "0000" when the address has no digits at all.
func StreetToken(address string) string {
	run := digitRunRe.FindString(address)
	if run == "" {
		return strings.Repeat("0", streetTokenLen)
	}
	if len(run) > streetTokenLen {
		return run[len(run)-streetTokenLen:]
	}
	return strings.Repeat("0", streetTokenLen-len(run)) + run
}

// Parts holds the decomposed fields of a document number.
type Parts struct {
	Prefix      string
	StreetToken string
	CompanyCode string
	Sequence    int64
}

// Compose joins the four fields into the canonical number string.
func Compose(prefix, streetToken, companyCode string, sequence int64) string {
	return fmt.Sprintf("%s-%s-%s-%d", prefix, streetToken, companyCode, sequence)
}

// Parse is the inverse of Compose. It fails unless the input has exactly
// four hyphen-delimited segments with a 4-digit street token and a positive
// sequence without leading zeros.
func Parse(number string) (Parts, error) {
	segments := strings.Split(number, "-")
	if len(segments) != 4 {
		return Parts{}, fmt.Errorf("%w: %q", ErrInvalidFormat, number)
	}

	prefix, street, company, seqStr := segments[0], segments[1], segments[2], segments[3]
	if prefix == "" || company == "" {
		return Parts{}, fmt.Errorf("%w: %q", ErrInvalidFormat, number)
	}
	if len(street) != streetTokenLen || !allDigits(street) {
		return Parts{}, fmt.Errorf("%w: street token %q", ErrInvalidFormat, street)
	}
	if len(seqStr) > 1 && seqStr[0] == '0' {
		return Parts{}, fmt.Errorf("%w: sequence %q", ErrInvalidFormat, seqStr)
	}

	seq, err := strconv.ParseInt(seqStr, 10, 64)
	if err != nil || seq < 1 {
		return Parts{}, fmt.Errorf("%w: sequence %q", ErrInvalidFormat, seqStr)
	}

	return Parts{
		Prefix:      prefix,
		StreetToken: street,
		CompanyCode: company,
		Sequence:    seq,
	}, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
