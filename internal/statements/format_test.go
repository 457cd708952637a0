package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     Format
	}{
		{
			name:     "monzo by notes column",
			filename: "export.csv",
			content:  "Date,Time,Transaction Type,Name,Amount,Currency,Notes and #tags,Description,Money Out,Money In\n",
			want:     FormatMonzo,
		},
		{
			name:     "monzo by money out column",
			filename: "export.csv",
			content:  "Date,Name,Amount,Money Out,Money In\n",
			want:     FormatMonzo,
		},
		{
			name:     "starling by counter party",
			filename: "export.csv",
			content:  "Date,Counter Party,Reference,Type,Amount (GBP),Balance (GBP),Spending Category\n",
			want:     FormatStarling,
		},
		{
			name:     "hsbc by paid columns",
			filename: "export.csv",
			content:  "Date,Type,Description,Paid Out,Paid In,Balance\n26/02/2026,DD,SKY,45.00,,1234.56\n",
			want:     FormatHSBC,
		},
		{
			// The simplified HSBC layout also has a bare Amount column; the
			// balance check must win over the narrow three-column check.
			name:     "hsbc simplified beats amex",
			filename: "export.csv",
			content:  "Date,Description,Amount,Balance\n",
			want:     FormatHSBC,
		},
		{
			name:     "amex by three columns",
			filename: "export.csv",
			content:  "Date,Description,Amount\n26/02/2026,TESCO STORES,45.67\n",
			want:     FormatAmex,
		},
		{
			name:     "filename fallback monzo",
			filename: "Monzo-statement-jan.csv",
			content:  "some,opaque,headers\n",
			want:     FormatMonzo,
		},
		{
			name:     "filename fallback american express",
			filename: "american_express_activity.csv",
			content:  "some,opaque,headers\n",
			want:     FormatAmex,
		},
		{
			name:     "filename fallback hsbc",
			filename: "HSBC_statement.csv",
			content:  "some,opaque,headers\n",
			want:     FormatHSBC,
		},
		{
			name:     "unrecognized",
			filename: "statement.csv",
			content:  "col1,col2,col3\n",
			want:     FormatUnknown,
		},
		{
			name:     "empty content and opaque filename",
			filename: "statement.csv",
			content:  "",
			want:     FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.filename, tt.content))
		})
	}
}
