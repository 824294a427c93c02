package parse

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/bankfeed/internal/money"
)

// FormatError is a fatal structural failure: a header or template
// mismatch, an unknown transaction-type token, or an unparseable date or
// number. It aborts the whole document's parse and carries the offending
// row's raw text so institution-format drift stays diagnosable.
type FormatError struct {
	Filename string
	Sheet    int
	Line     int
	Row      []string
	Msg      string
	Err      error
}

func (e *FormatError) Error() string {
	s := fmt.Sprintf("format error at %s:%d:%d: %s", e.Filename, e.Sheet, e.Line, e.Msg)
	if len(e.Row) > 0 {
		s += fmt.Sprintf(" (row: %q)", strings.Join(e.Row, " | "))
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FormatError) Unwrap() error { return e.Err }

// InvariantError signals that the declared closing balance disagrees
// with opening + sum of parsed transactions. It is never auto-corrected:
// an exact-decimal mismatch means some row was mis-parsed or
// mis-classified earlier in the document.
type InvariantError struct {
	Filename string
	Account  string
	Declared money.Amount // closing balance as printed
	Computed money.Amount // opening + sum of transactions
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"balance invariant violated in %s (account %s): opening + transactions = %s, declared closing = %s",
		e.Filename, e.Account, e.Computed, e.Declared)
}
