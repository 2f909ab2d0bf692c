package format

import (
	"testing"

	"github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/stretchr/testify/assert"
)

func TestStreetToken(t *testing.T) {
	cases := []struct {
		name    string
		address string
		want    string
	}{
		{"typical address", "742 Evergreen Terrace", "0742"},
		{"no digits", "Terrace", "0000"},
		{"empty", "", "0000"},
		{"long run keeps last four", "Unit 12345 Main St", "2345"},
		{"exactly four", "1600 Pennsylvania Ave", "1600"},
		{"single digit", "5 Elm St", "0005"},
		{"first run wins", "12 Oak Ave Suite 9900", "0012"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := StreetToken(tc.address)
			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 4)
		})
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	cases := []Parts{
		{Prefix: "EST", StreetToken: "1600", CompanyCode: "ABCX", Sequence: 1},
		{Prefix: "INV", StreetToken: "0742", CompanyCode: "CAB3", Sequence: 42},
		{Prefix: "WO", StreetToken: "0000", CompanyCode: "ZZ", Sequence: 999},
	}

	for _, want := range cases {
		composed := Compose(want.Prefix, want.StreetToken, want.CompanyCode, want.Sequence)
		got, err := Parse(composed)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"",
		"EST-1600-ABCX",            // three segments
		"EST-1600-ABCX-1-extra",    // five segments
		"EST-160-ABCX-1",           // short street token
		"EST-16000-ABCX-1",         // long street token
		"EST-16AB-ABCX-1",          // non-numeric street token
		"EST-1600-ABCX-0",          // sequence below 1
		"EST-1600-ABCX-01",         // leading zero sequence
		"EST-1600-ABCX-x",          // non-numeric sequence
		"-1600-ABCX-1",             // empty prefix
		"EST-1600--1",              // empty company
	}

	for _, input := range cases {
		_, err := Parse(input)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", input)
	}
}

func TestPrefixFor(t *testing.T) {
	assert.Equal(t, "INV", PrefixFor(domain.DocumentTypeInvoice, nil))
	assert.Equal(t, "EST", PrefixFor(domain.DocumentTypeEstimate, nil))
	assert.Equal(t, "PLM", PrefixFor(domain.DocumentTypePlumberReport, nil))
	assert.Equal(t, "INS", PrefixFor(domain.DocumentTypeInsuranceEstimate, nil))
	assert.Equal(t, "WO", PrefixFor(domain.DocumentTypeWorkOrder, nil))

	// Unknown types never panic; they fall back to the generic prefix.
	assert.Equal(t, "DOC", PrefixFor(domain.DocumentType("receipt"), nil))

	// Config overrides win over the built-in table.
	assert.Equal(t, "QTE", PrefixFor(domain.DocumentTypeEstimate, map[string]string{
		"estimate": "QTE",
	}))
}
