// Package model defines the canonical records produced by a statement
// parse: typed transactions and balances with full source provenance and
// a stable deduplication key. All values are immutable after emission.
package model

import (
	"fmt"
	"time"

	"github.com/cleared-dev/bankfeed/internal/money"
)

// Provenance locates a record in its source document.
type Provenance struct {
	DocType  string // MIME-ish document type, e.g. "text/csv"
	Filename string
	Sheet    int // zero-based sheet/page-section index
	Line     int // one-based row index within the sheet
}

// String renders a human-readable locator like "stmt.xlsx:3:12".
func (p Provenance) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Sheet, p.Line)
}

// StatementPage is one page of the source document. Exactly one page is
// active at a time during parsing; pages are immutable once created.
type StatementPage struct {
	PageIndex      int
	AnchorDate     time.Time // date printed on the page header
	Account        string    // institution-local account identifier
	SequenceNumber int
}

// Transaction is a canonical parsed transaction. Amount is never zero:
// zero-amount source rows are dropped before emission.
type Transaction struct {
	Account       string
	Date          time.Time // booking date, authoritative for balances
	TxnDate       time.Time // transaction date as printed
	Amount        money.Amount
	ForeignAmount *money.Amount // present for cross-currency charges
	Payee         string
	Narration     string
	SourceDesc    string // narration plus place/country, matching feature
	Provenance    Provenance
}

// Balance is a canonical balance declaration. Date is the instant from
// which the balance holds, not the last transaction date.
type Balance struct {
	Account    string
	Date       time.Time
	Amount     money.Amount
	Provenance Provenance
}

// DedupKey identifies a logical transaction for matching against
// previously recorded entries. Identical keys are legitimate independent
// transactions and must never be collapsed.
type DedupKey struct {
	Account    string
	Date       string // formatted 2006-01-02 so the key is comparable
	Amount     string // fixed two-decimal rendering with currency
	SourceDesc string
}

// DedupKey derives the transaction's matching key.
func (t Transaction) DedupKey() DedupKey {
	return DedupKey{
		Account:    t.Account,
		Date:       t.Date.Format("2006-01-02"),
		Amount:     t.Amount.String(),
		SourceDesc: t.SourceDesc,
	}
}

// DedupKey derives the balance's matching key. Balances carry no source
// description; the other three fields identify them.
func (b Balance) DedupKey() DedupKey {
	return DedupKey{
		Account: b.Account,
		Date:    b.Date.Format("2006-01-02"),
		Amount:  b.Amount.String(),
	}
}
