package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal_CommaLocale(t *testing.T) {
	d, err := ParseDecimal("1.827,97")
	require.NoError(t, err)
	assert.Equal(t, "1827.97", d.StringFixed(2))
}

func TestParseDecimal_CurrencySymbolPrefix(t *testing.T) {
	d, err := ParseDecimal("€ 1.801,55")
	require.NoError(t, err)
	assert.Equal(t, "1801.55", d.StringFixed(2))
}

func TestParseDecimal_PlainDotDecimal(t *testing.T) {
	for in, want := range map[string]string{
		"65.00":        "65.00",
		"1000":         "1000.00",
		"29.990000000": "29.99",
	} {
		d, err := ParseDecimal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, d.StringFixed(2), in)
	}
}

func TestParseDecimal_ExactRepresentation(t *testing.T) {
	// 29.990000000 must survive as an exact decimal, not a float round trip.
	d, err := ParseDecimal("29.990000000")
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("29.99")))
}

func TestParseDecimal_Invalid(t *testing.T) {
	_, err := ParseDecimal("NOTANUMBER")
	assert.Error(t, err)

	_, err = ParseDecimal("€ ")
	assert.Error(t, err)
}

func TestParse_TrailingCurrencyCode(t *testing.T) {
	a, err := Parse("235,01 EGP", "", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EGP", a.Currency)
	assert.Equal(t, "235.01", a.Number.StringFixed(2))
}

func TestParse_FormatHintCurrency(t *testing.T) {
	a, err := Parse("235.01", `0.00\ [$EGP]`, "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EGP", a.Currency)

	a, err = Parse("29.990000000", "#,##0.00 [$USD-409]", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "USD", a.Currency)
	assert.Equal(t, "29.99", a.Number.StringFixed(2))
}

func TestParse_FallbackCurrency(t *testing.T) {
	a, err := Parse("65.00", "", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR", a.Currency)
}

func TestFormatHintCurrency_NoCode(t *testing.T) {
	assert.Equal(t, "", FormatHintCurrency("#,##0.00"))
	assert.Equal(t, "", FormatHintCurrency(""))
}

func TestApplySign(t *testing.T) {
	n := decimal.RequireFromString("65.00")

	neg, err := ApplySign(n, "Af", "Af", "Bij")
	require.NoError(t, err)
	assert.Equal(t, "-65.00", neg.StringFixed(2))

	pos, err := ApplySign(n, "Bij", "Af", "Bij")
	require.NoError(t, err)
	assert.Equal(t, "65.00", pos.StringFixed(2))
}

func TestApplySign_UnknownToken(t *testing.T) {
	_, err := ApplySign(decimal.New(1, 0), "Maybe", "Af", "Bij")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transaction type")
}

func TestAmountString(t *testing.T) {
	a := Amount{Number: decimal.RequireFromString("-65"), Currency: "EUR"}
	assert.Equal(t, "-65.00 EUR", a.String())
}

func TestAmountEqual(t *testing.T) {
	a := Amount{Number: decimal.RequireFromString("65.00"), Currency: "EUR"}
	b := Amount{Number: decimal.RequireFromString("65"), Currency: "EUR"}
	c := Amount{Number: decimal.RequireFromString("65"), Currency: "USD"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
