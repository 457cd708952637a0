// Package statements converts raw bank-statement CSV exports in
// provider-specific dialects into canonical transaction rows.
package statements

import "strings"

// Format identifies a known bank CSV dialect.
type Format string

const (
	FormatMonzo    Format = "monzo"
	FormatStarling Format = "starling"
	FormatHSBC     Format = "hsbc"
	FormatAmex     Format = "amex"
	FormatUnknown  Format = ""
)

// DetectFormat classifies raw file content/name into one of the known
// dialects, or FormatUnknown. Callers must handle the negative case
// explicitly; it is not an error.
//
// The checks run as an ordered priority list against the lower-cased first
// line of content. Order matters because header vocabularies overlap: the
// simplified HSBC layout also carries a bare "Amount" column and would match
// the narrower Amex check if evaluated later.
func DetectFormat(filename string, content string) Format {
	firstLine := strings.ToLower(strings.SplitN(content, "\n", 2)[0])

	// Monzo: has "Notes and #tags" or "Money Out" columns.
	if strings.Contains(firstLine, "notes and") || strings.Contains(firstLine, "money out") {
		return FormatMonzo
	}

	// Starling: has a "Counter Party" column.
	if strings.Contains(firstLine, "counter party") {
		return FormatStarling
	}

	// HSBC, both layouts:
	//   Date,Type,Description,Paid Out,Paid In,Balance
	//   Date,Description,Amount,Balance
	if strings.Contains(firstLine, "paid out") || strings.Contains(firstLine, "paid in") {
		return FormatHSBC
	}
	if strings.Contains(firstLine, "balance") && strings.Contains(firstLine, "date") {
		return FormatHSBC
	}

	// Amex: Date,Description,Amount with no balance and no paid out/in.
	if strings.Contains(firstLine, "date") &&
		strings.Contains(firstLine, "description") &&
		strings.Contains(firstLine, "amount") {
		return FormatAmex
	}

	// Filename hints as a last resort.
	fname := strings.ToLower(filename)
	switch {
	case strings.Contains(fname, "monzo"):
		return FormatMonzo
	case strings.Contains(fname, "starling"):
		return FormatStarling
	case strings.Contains(fname, "amex"), strings.Contains(fname, "american_express"):
		return FormatAmex
	case strings.Contains(fname, "hsbc"):
		return FormatHSBC
	}

	return FormatUnknown
}
