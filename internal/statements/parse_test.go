package statements

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseAmex_FlipsChargeSign(t *testing.T) {
	content := "Date,Description,Amount\n26/02/2026,TESCO STORES,45.67\n"

	rows, err := Parse(FormatAmex, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, date(2026, 2, 26), rows[0].Date)
	assert.Equal(t, "TESCO STORES", rows[0].Description)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-45.67")),
		"charge must be inverted to outgoing, got %s", rows[0].Amount)
	assert.Nil(t, rows[0].BalanceAfter)
}

func TestParseAmex_PaymentStaysIncoming(t *testing.T) {
	content := "Date,Description,Amount\n26/02/2026,PAYMENT RECEIVED,-200.00\n"

	rows, err := Parse(FormatAmex, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("200.00")))
}

func TestParseAmex_DateFormatFallbacks(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"2026-02-26,ISO ROW,10.00\n" +
		"26/02/2026,UK ROW,10.00\n"

	rows, err := Parse(FormatAmex, content)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, date(2026, 2, 26), rows[0].Date)
	assert.Equal(t, date(2026, 2, 26), rows[1].Date)
}

func TestParseHSBC_PaidColumnsAndBalance(t *testing.T) {
	content := "Date,Type,Description,Paid Out,Paid In,Balance\n" +
		"26/02/2026,DD,SKY UK LIMITED,45.00,,1234.56\n" +
		"27/02/2026,CR,ACME PAYROLL,,2500.00,3734.56\n"

	rows, err := Parse(FormatHSBC, content)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-45.00")))
	require.NotNil(t, rows[0].BalanceAfter)
	assert.True(t, rows[0].BalanceAfter.Equal(decimal.RequireFromString("1234.56")))

	assert.True(t, rows[1].Amount.Equal(decimal.RequireFromString("2500.00")))
	require.NotNil(t, rows[1].BalanceAfter)
	assert.True(t, rows[1].BalanceAfter.Equal(decimal.RequireFromString("3734.56")))
}

func TestParseHSBC_SimplifiedLayoutPreSigned(t *testing.T) {
	content := "Date,Description,Amount,Balance\n" +
		"26/02/2026,TESCO STORES,-45.67,954.33\n"

	rows, err := Parse(FormatHSBC, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-45.67")))
}

func TestParseHSBC_CollapsesMultilineDescription(t *testing.T) {
	content := "Date,Type,Description,Paid Out,Paid In,Balance\n" +
		"26/02/2026,DD,\"SKY UK\nLIMITED   SUBS\",45.00,,1234.56\n"

	rows, err := Parse(FormatHSBC, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SKY UK LIMITED SUBS", rows[0].Description)
}

func TestParseHSBC_SkipsRowWithNeitherPaidColumn(t *testing.T) {
	content := "Date,Type,Description,Paid Out,Paid In,Balance\n" +
		"26/02/2026,DD,NO AMOUNTS,,,1234.56\n" +
		"27/02/2026,DD,REAL ROW,10.00,,1224.56\n"

	rows, err := Parse(FormatHSBC, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "REAL ROW", rows[0].Description)
}

func TestParseMonzo_SignedAmountsAndMerchant(t *testing.T) {
	content := "Date,Time,Transaction Type,Name,Amount,Currency,Notes and #tags,Description,Money Out,Money In\n" +
		"01/03/2026,09:15:00,card,Netflix,-15.99,GBP,#fun,NETFLIX.COM,15.99,\n"

	rows, err := Parse(FormatMonzo, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-15.99")))
	assert.Equal(t, "Netflix", rows[0].MerchantName)
	assert.Equal(t, "NETFLIX.COM - #fun", rows[0].Description)
	assert.Nil(t, rows[0].BalanceAfter)
}

func TestParseMonzo_SkipsRowWithoutNameOrDescription(t *testing.T) {
	content := "Date,Name,Amount,Description,Notes and #tags\n" +
		"01/03/2026,,12.00,,\n" +
		"02/03/2026,Spotify,-9.99,SPOTIFY,\n"

	rows, err := Parse(FormatMonzo, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Spotify", rows[0].MerchantName)
}

func TestParseStarling_CurrencySuffixedColumns(t *testing.T) {
	content := "Date,Counter Party,Reference,Type,Amount (GBP),Balance (GBP),Spending Category\n" +
		"05/03/2026,British Gas,ENERGY BILL,DD,-82.50,\"1,417.50\",BILLS\n"

	rows, err := Parse(FormatStarling, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.True(t, rows[0].Amount.Equal(decimal.RequireFromString("-82.50")))
	assert.Equal(t, "British Gas", rows[0].MerchantName)
	assert.Equal(t, "ENERGY BILL", rows[0].Description)
	require.NotNil(t, rows[0].BalanceAfter)
	assert.True(t, rows[0].BalanceAfter.Equal(decimal.RequireFromString("1417.50")),
		"thousands separator must be stripped, got %s", rows[0].BalanceAfter)
}

func TestParseStarling_MissingBalanceLeftNil(t *testing.T) {
	content := "Date,Counter Party,Reference,Type,Amount (GBP),Balance (GBP)\n" +
		"05/03/2026,Corner Shop,GROCERIES,CARD,-4.20,\n"

	rows, err := Parse(FormatStarling, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].BalanceAfter)
}

func TestParse_HeaderOnlyYieldsEmpty(t *testing.T) {
	for _, format := range []Format{FormatMonzo, FormatStarling, FormatHSBC, FormatAmex} {
		rows, err := Parse(format, "Date,Description,Amount\n")
		require.NoError(t, err)
		assert.Empty(t, rows, "format %s", format)
	}
}

func TestParse_MalformedRowsSilentlySkipped(t *testing.T) {
	content := "Date,Description,Amount\n" +
		"not-a-date,BAD DATE,10.00\n" +
		",MISSING DATE,10.00\n" +
		"26/02/2026,MISSING AMOUNT,\n" +
		"26/02/2026,GOOD ROW,45.67\n"

	rows, err := Parse(FormatAmex, content)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "GOOD ROW", rows[0].Description)
}

func TestParse_UnknownFormatErrors(t *testing.T) {
	_, err := Parse(FormatUnknown, "anything")
	assert.Error(t, err)
}

func TestDecodeUpload_Latin1Fallback(t *testing.T) {
	// "CAFÉ" in Latin-1; 0xC9 alone is invalid UTF-8.
	raw := []byte{'C', 'A', 'F', 0xC9}
	assert.Equal(t, "CAFÉ", DecodeUpload(raw))

	assert.Equal(t, "plain utf-8", DecodeUpload([]byte("plain utf-8")))
}
