package statements

import (
	"encoding/csv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Row is the canonical transaction shape every dialect parser emits.
// Amounts are signed system-wide: negative means money leaving the account,
// positive means money entering it.
type Row struct {
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	BalanceAfter *decimal.Decimal // Running balance, when the dialect carries one
	MerchantName string           // Empty when the dialect has no merchant column
}

// DecodeUpload interprets raw upload bytes as UTF-8, falling back to Latin-1
// when the content is not valid UTF-8. Bank exports occasionally arrive in
// legacy encodings.
func DecodeUpload(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// record is one CSV data row keyed by header name.
type record map[string]string

// readRecords parses CSV content into header-keyed records. Quoted fields may
// span multiple lines; ragged rows are tolerated and missing cells read as "".
func readRecords(content string) []record {
	reader := csv.NewReader(strings.NewReader(content))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil || len(all) < 2 {
		return nil
	}

	headers := all[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]record, 0, len(all)-1)
	for _, fields := range all[1:] {
		rec := make(record, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				rec[h] = fields[i]
			}
		}
		records = append(records, rec)
	}
	return records
}

// get returns the trimmed value for the first matching column name.
func (r record) get(names ...string) string {
	for _, name := range names {
		if v, ok := r[name]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// getPrefixed returns the trimmed value of the first column whose header
// starts with prefix. Starling suffixes amount/balance headers with the
// currency, e.g. "Amount (GBP)".
func (r record) getPrefixed(prefix string) (string, bool) {
	for name, v := range r {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// parseAmount parses a fixed-point decimal, stripping thousands separators.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDate attempts the dialect's ordered list of date layouts; first
// success wins.
func parseDate(s string, layouts ...string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// collapseWhitespace joins multi-line or padded text into a single-line
// description.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
