// Package parse turns one statement document into canonical transaction
// and balance records. The pipeline is a single synchronous pass: layout
// segmentation, row-shape recovery, date and amount resolution, balance
// validation, record emission. A document either parses completely and
// arithmetically consistently or is rejected in full.
package parse

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/dateutil"
	"github.com/cleared-dev/bankfeed/internal/institution"
	"github.com/cleared-dev/bankfeed/internal/model"
	"github.com/cleared-dev/bankfeed/internal/money"
	"github.com/cleared-dev/bankfeed/internal/sheet"
)

// Result is everything one parse invocation produced. Records appear in
// the document's natural row order; ordering across documents is the
// caller's concern.
type Result struct {
	RunID        uuid.UUID
	Filename     string
	Pages        []model.StatementPage
	Transactions []model.Transaction
	Balances     []model.Balance
	SkippedZero  int // zero-amount rows dropped by design
	NoiseRows    int
}

// DedupKeys returns the transaction keys in emission order.
func (r *Result) DedupKeys() []model.DedupKey {
	keys := make([]model.DedupKey, len(r.Transactions))
	for i, t := range r.Transactions {
		keys[i] = t.DedupKey()
	}
	return keys
}

// Parser parses statement documents for one institution profile. A
// Parser holds no per-document state and is safe for concurrent use;
// each Parse call owns all transient state for its document.
type Parser struct {
	profile *institution.Profile
	rules   []RecoveryRule
	log     zerolog.Logger
}

// New creates a parser for the given profile.
func New(p *institution.Profile, log zerolog.Logger) (*Parser, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Parser{profile: p, rules: defaultRules(p), log: log}, nil
}

// Institution returns the profile name.
func (p *Parser) Institution() string { return p.profile.Name }

// ParseFile loads and parses one statement export.
func (p *Parser) ParseFile(path string) (*Result, error) {
	doc, err := sheet.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(doc)
}

// Parse runs the pipeline over one loaded document.
func (p *Parser) Parse(doc *sheet.Document) (*Result, error) {
	res := &Result{RunID: uuid.New(), Filename: doc.Filename}
	log := p.log.With().
		Stringer("run_id", res.RunID).
		Str("file", doc.Filename).
		Str("institution", p.profile.Name).
		Logger()

	var (
		account    string
		anchor     time.Time
		block      *balanceBlock
		blockProv  model.Provenance
		sum        = decimal.Zero
		expectInfo bool // true for the one row after the first page header
		balanceIn  int  // rows until the expected balance summary
		columnIn   int  // rows until the expected column header
		pageCount  int
	)

	for _, s := range doc.Sheets {
		for rowIdx, raw := range s.Rows {
			prov := model.Provenance{
				DocType:  doc.DocType,
				Filename: doc.Filename,
				Sheet:    s.Index,
				Line:     rowIdx + 1,
			}
			cells := nonEmpty(raw)

			switch {
			case expectInfo:
				expectInfo = false
				info, err := parsePageInfo(cells)
				if err != nil {
					return nil, formatErr(prov, cells, "page header not followed by page info", err)
				}
				anchor, err = dateutil.ParseAnchor(info.AnchorText, p.profile.FullMonths)
				if err != nil {
					return nil, formatErr(prov, cells, "invalid page anchor date", err)
				}
				account = info.Account
				res.Pages = append(res.Pages, model.StatementPage{
					PageIndex:      pageCount - 1,
					AnchorDate:     anchor,
					Account:        account,
					SequenceNumber: info.Sequence,
				})
				log.Debug().Time("anchor", anchor).Str("account", account).Msg("statement page opened")
				balanceIn = 1

			case balanceIn > 0:
				balanceIn--
				b, err := parseBalanceRow(cells, p.profile)
				if err != nil {
					return nil, formatErr(prov, cells, "balance summary row mismatch", err)
				}
				if block == nil {
					block, blockProv = b, prov
				}
				columnIn = 1

			case columnIn > 0:
				columnIn--
				if !matchesTemplate(cells, p.profile.ColumnHeaderFields) {
					return nil, formatErr(prov, cells, "column header row mismatch", nil)
				}

			case matchesTemplate(cells, p.profile.PageHeaderFields):
				pageCount++
				if pageCount == 1 {
					expectInfo = true
				} else {
					// Later pages reuse the document's anchor and account.
					res.Pages = append(res.Pages, model.StatementPage{
						PageIndex:      pageCount - 1,
						AnchorDate:     anchor,
						Account:        account,
						SequenceNumber: pageCount,
					})
					balanceIn = 1
				}

			case pageCount == 0 || len(cells) == 0:
				res.NoiseRows++

			default:
				txn, class, err := p.consumeCandidate(cells, account, anchor, prov, log)
				if err != nil {
					return nil, err
				}
				switch class {
				case ClassTransaction:
					sum = sum.Add(txn.Amount.Number)
					res.Transactions = append(res.Transactions, txn)
				case ClassNoise:
					res.NoiseRows++
				default: // zero-amount skip
					res.SkippedZero++
				}
			}
		}
	}

	if pageCount == 0 {
		return nil, &FormatError{
			Filename: doc.Filename,
			Msg:      "no page header row found; document is not in the expected export format",
		}
	}
	if block == nil {
		return nil, &FormatError{Filename: doc.Filename, Msg: "no balance summary row found"}
	}

	computed := net(block.Opening, sum)
	if !computed.Number.Equal(block.Closing.Number) {
		return nil, &InvariantError{
			Filename: doc.Filename,
			Account:  account,
			Declared: block.Closing,
			Computed: computed,
		}
	}

	res.Balances = append(res.Balances, model.Balance{
		Account:    account,
		Date:       anchor,
		Amount:     block.Closing,
		Provenance: blockProv,
	})

	log.Info().
		Int("transactions", len(res.Transactions)).
		Int("skipped_zero", res.SkippedZero).
		Int("noise_rows", res.NoiseRows).
		Int("pages", pageCount).
		Msg("statement parsed")
	return res, nil
}

// consumeCandidate normalizes and emits one transaction-candidate row.
// The returned class is ClassTransaction for an emitted record,
// ClassNoise for a discarded row, or classZeroSkip for a dropped
// zero-amount row.
func (p *Parser) consumeCandidate(cells []sheet.Cell, account string, anchor time.Time, prov model.Provenance, log zerolog.Logger) (model.Transaction, RowClass, error) {
	if !p.profile.AcceptsShape(len(cells)) {
		out, ruleName, outcome := normalize(p.rules, cells)
		switch outcome {
		case RuleNoise:
			log.Debug().Str("rule", ruleName).Str("pos", prov.String()).Msg("row discarded as noise")
			return model.Transaction{}, ClassNoise, nil
		case RuleNotApplicable:
			return model.Transaction{}, ClassNoise, nil
		}
		if !p.profile.AcceptsShape(len(out)) {
			if ruleName == (PassThrough{}).Name() {
				return model.Transaction{}, ClassNoise, nil
			}
			return model.Transaction{}, ClassNoise, formatErr(prov, cells,
				"row normalization ("+ruleName+") produced unexpected shape", nil)
		}
		cells = out
	}
	txn, skipped, err := p.emit(cells, account, anchor, prov)
	if err != nil {
		return model.Transaction{}, ClassNoise, err
	}
	if skipped {
		log.Debug().Str("pos", prov.String()).Msg("zero-amount row skipped")
		return model.Transaction{}, classZeroSkip, nil
	}
	return txn, ClassTransaction, nil
}

// classZeroSkip is internal to candidate consumption: a dropped
// zero-amount row, distinct from noise for reporting.
const classZeroSkip = RowClass(-1)

// emit builds a canonical transaction from a shape-validated row.
func (p *Parser) emit(cells []sheet.Cell, account string, anchor time.Time, prov model.Provenance) (model.Transaction, bool, error) {
	n := len(cells)

	txnDate, err := dateutil.ResolveDayMonth(cells[0].Text, anchor, p.profile.Months)
	if err != nil {
		return model.Transaction{}, false, formatErr(prov, cells, "invalid transaction date", err)
	}
	// The booking date is authoritative: the balance block sums by
	// booking period, and the transaction date can disagree with it at
	// month boundaries.
	bookDate, err := dateutil.ResolveDayMonth(cells[1].Text, anchor, p.profile.Months)
	if err != nil {
		return model.Transaction{}, false, formatErr(prov, cells, "invalid booking date", err)
	}

	narration := collapse(cells[2].Text)
	amountCell := cells[n-2]
	amt, err := money.Parse(amountCell.Text, amountCell.NumberFormat, p.profile.Currency)
	if err != nil {
		return model.Transaction{}, false, formatErr(prov, cells, "invalid amount", err)
	}
	if amt.Number.IsZero() {
		// Waived or reversed charges export as zero-amount rows; they
		// are dropped, not errors.
		return model.Transaction{}, true, nil
	}

	signTok := strings.TrimSpace(cells[n-1].Text)
	signed, err := money.ApplySign(amt.Number, signTok, p.profile.DebitToken, p.profile.CreditToken)
	if err != nil {
		return model.Transaction{}, false, formatErr(prov, cells, "cannot classify row", err)
	}
	amt.Number = signed

	sourceDesc := narration
	payee := ""
	if n >= 7 {
		place, country := collapse(cells[3].Text), collapse(cells[4].Text)
		sourceDesc = narration + ", " + place + " (" + country + ")"
		payee = narration
	}

	var foreign *money.Amount
	if n == 8 {
		fa, err := money.Parse(cells[5].Text, cells[5].NumberFormat, "")
		if err != nil {
			return model.Transaction{}, false, formatErr(prov, cells, "invalid foreign amount", err)
		}
		fa.Number, _ = money.ApplySign(fa.Number, signTok, p.profile.DebitToken, p.profile.CreditToken)
		foreign = &fa
	}

	return model.Transaction{
		Account:       account,
		Date:          bookDate,
		TxnDate:       txnDate,
		Amount:        amt,
		ForeignAmount: foreign,
		Payee:         payee,
		Narration:     narration,
		SourceDesc:    sourceDesc,
		Provenance:    prov,
	}, false, nil
}

func formatErr(prov model.Provenance, cells []sheet.Cell, msg string, err error) *FormatError {
	return &FormatError{
		Filename: prov.Filename,
		Sheet:    prov.Sheet,
		Line:     prov.Line,
		Row:      cellTexts(cells),
		Msg:      msg,
		Err:      err,
	}
}

// Registry holds parsers by institution name.
type Registry struct {
	parsers map[string]*Parser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]*Parser)}
}

// Register adds a parser. Panics on duplicate institution.
func (r *Registry) Register(p *Parser) {
	key := strings.ToLower(p.Institution())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate institution: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for an institution, or nil.
func (r *Registry) Get(name string) *Parser {
	return r.parsers[strings.ToLower(name)]
}

// Institutions lists registered institution names, sorted.
func (r *Registry) Institutions() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry returns a registry with all built-in profiles.
func DefaultRegistry(log zerolog.Logger) *Registry {
	r := NewRegistry()
	p, err := New(institution.ICS(), log)
	if err != nil {
		panic(err)
	}
	r.Register(p)
	return r
}
