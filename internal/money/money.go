// Package money provides the decimal amount type and the locale-aware
// parsing used for statement cells: comma-decimal text with dot thousands
// separators, optional currency symbol prefixes, and currency codes
// embedded either in the cell text or in spreadsheet number-format hints.
package money

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a signed decimal quantity with a currency code.
type Amount struct {
	Number   decimal.Decimal
	Currency string
}

// String renders the amount as "-65.00 EUR".
func (a Amount) String() string {
	if a.Currency == "" {
		return a.Number.StringFixed(2)
	}
	return a.Number.StringFixed(2) + " " + a.Currency
}

// Equal reports exact decimal and currency equality.
func (a Amount) Equal(b Amount) bool {
	return a.Currency == b.Currency && a.Number.Equal(b.Number)
}

// IsZero reports whether the numeric value is exactly zero.
func (a Amount) IsZero() bool { return a.Number.IsZero() }

var (
	// Trailing ISO code embedded in the cell text, e.g. "235,01 EGP".
	trailingCodeRe = regexp.MustCompile(`\s([A-Z]{3})$`)
	// Bracketed currency code terminating a number-format string,
	// e.g. "0.00\ [$EGP]" or "#,##0.00 [$USD-409]".
	formatCodeRe = regexp.MustCompile(`\[\$?([A-Z]{3})[^\]]*\]\s*$`)
)

// ParseDecimal converts locale-formatted numeric text to an exact decimal.
// Accepted forms: "1.827,97" (comma decimal, dot thousands), "65.00" and
// "29.990000000" (plain dot decimal), "1000", each optionally prefixed by
// a currency symbol and a space ("€ 1.827,97"). The value goes through
// decimal.NewFromString so no binary float ever touches the amount.
func ParseDecimal(s string) (decimal.Decimal, error) {
	t := strings.TrimSpace(s)
	if i := strings.IndexAny(t, "0123456789-"); i > 0 {
		// Currency symbol prefix ("€ ", "$ "); keep only the number.
		t = strings.TrimSpace(t[i:])
	}
	if t == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount %q", s)
	}
	if strings.Contains(t, ",") {
		// Comma-decimal locale: dots are thousands separators.
		t = strings.ReplaceAll(t, ".", "")
		t = strings.Replace(t, ",", ".", 1)
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

// FormatHintCurrency extracts a currency code from a spreadsheet
// number-format string ending in a bracketed code, or "" when absent.
func FormatHintCurrency(numFmt string) string {
	if m := formatCodeRe.FindStringSubmatch(numFmt); m != nil {
		return m[1]
	}
	return ""
}

// Parse converts a cell value into an Amount. Currency precedence: a code
// embedded in the text ("235,01 EGP"), then a bracketed code in the
// number-format hint, then fallback.
func Parse(text, numFmt, fallback string) (Amount, error) {
	currency := fallback
	t := strings.TrimSpace(text)
	if m := trailingCodeRe.FindStringSubmatch(t); m != nil {
		currency = m[1]
		t = strings.TrimSpace(t[:len(t)-len(m[0])])
	} else if c := FormatHintCurrency(numFmt); c != "" {
		currency = c
	}
	n, err := ParseDecimal(t)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Number: n, Currency: currency}, nil
}

// ApplySign applies a paired credit/debit token to a parsed magnitude:
// the debit token negates, the credit token leaves it positive. Any other
// token is an unknown transaction type.
func ApplySign(n decimal.Decimal, token, debit, credit string) (decimal.Decimal, error) {
	switch strings.TrimSpace(token) {
	case debit:
		return n.Neg(), nil
	case credit:
		return n, nil
	default:
		return decimal.Decimal{}, fmt.Errorf("unknown transaction type %q", token)
	}
}
