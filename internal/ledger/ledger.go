// Package ledger builds ledger-entry representations of canonical
// records for the downstream reconciliation engine, and maps recorded
// postings back to dedup keys. This is the only coupling point between
// the statement parser and the ledger side.
package ledger

import (
	"fmt"
	"time"

	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/money"
)

// FIXMEAccount is the placeholder counter-account for postings that
// still need classification.
const FIXMEAccount = "Expenses:FIXME"

// Metadata keys attached to the statement-side posting so a recorded
// entry can later be mapped back to the same dedup key.
const (
	MetaSourceDesc = "source_desc"
	MetaDate       = "date"
)

const metaDateFormat = "2006-01-02"

// Posting is one side of a ledger entry.
type Posting struct {
	Account string
	Units   money.Amount
	Meta    map[string]string
}

// Entry is a two-sided ledger entry built from a canonical transaction.
type Entry struct {
	Date      time.Time
	Payee     string
	Narration string
	Postings  []Posting
}

// BalanceAssertion is the ledger representation of a canonical balance.
// Its date is the instant from which the balance holds; callers wanting
// a post-dated assertion offset it explicitly.
type BalanceAssertion struct {
	Account string
	Date    time.Time
	Amount  money.Amount
}

// FromTransaction builds the ledger entry for a canonical transaction:
// the statement account posting carries the source description and date
// as queryable metadata, balanced by a placeholder posting awaiting
// classification.
func FromTransaction(t model.Transaction, statementAccount string) Entry {
	return Entry{
		Date:      t.Date,
		Payee:     t.Payee,
		Narration: t.SourceDesc,
		Postings: []Posting{
			{
				Account: statementAccount,
				Units:   t.Amount,
				Meta: map[string]string{
					MetaSourceDesc: t.SourceDesc,
					MetaDate:       t.Date.Format(metaDateFormat),
				},
			},
			{
				Account: FIXMEAccount,
				Units:   money.Amount{Number: t.Amount.Number.Neg(), Currency: t.Amount.Currency},
			},
		},
	}
}

// FromBalance builds the balance assertion for a canonical balance.
func FromBalance(b model.Balance, statementAccount string) BalanceAssertion {
	return BalanceAssertion{
		Account: statementAccount,
		Date:    b.Date,
		Amount:  b.Amount,
	}
}

// KeyFromPosting rebuilds the dedup key from an already-recorded
// posting's account, units and metadata, for matching against freshly
// parsed records.
func KeyFromPosting(p Posting) (model.DedupKey, error) {
	desc, ok := p.Meta[MetaSourceDesc]
	if !ok {
		return model.DedupKey{}, fmt.Errorf("posting on %s has no %s metadata", p.Account, MetaSourceDesc)
	}
	dateText, ok := p.Meta[MetaDate]
	if !ok {
		return model.DedupKey{}, fmt.Errorf("posting on %s has no %s metadata", p.Account, MetaDate)
	}
	if _, err := time.Parse(metaDateFormat, dateText); err != nil {
		return model.DedupKey{}, fmt.Errorf("posting date %q: %w", dateText, err)
	}
	return model.DedupKey{
		Account:    p.Account,
		Date:       dateText,
		Amount:     p.Units.String(),
		SourceDesc: desc,
	}, nil
}

// KeyFromAssertion rebuilds the dedup key shape for a recorded balance
// assertion.
func KeyFromAssertion(a BalanceAssertion) model.DedupKey {
	return model.DedupKey{
		Account: a.Account,
		Date:    a.Date.Format(metaDateFormat),
		Amount:  a.Amount.String(),
	}
}
