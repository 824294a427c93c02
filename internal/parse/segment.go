package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankfeed/internal/institution"
	"github.com/cleared-dev/bankfeed/internal/money"
	"github.com/cleared-dev/bankfeed/internal/sheet"
)

// RowClass tags each source row during layout segmentation.
type RowClass int

const (
	// ClassNoise marks rows that carry no parseable content.
	ClassNoise RowClass = iota
	// ClassPageHeader marks the fixed four-field page-header row.
	ClassPageHeader
	// ClassBalanceSummary marks the opening/received/spent/closing row.
	ClassBalanceSummary
	// ClassColumnHeader marks the transaction column-header row.
	ClassColumnHeader
	// ClassTransaction marks a transaction candidate row.
	ClassTransaction
)

func (c RowClass) String() string {
	switch c {
	case ClassPageHeader:
		return "PageHeader"
	case ClassBalanceSummary:
		return "BalanceSummary"
	case ClassColumnHeader:
		return "ColumnHeader"
	case ClassTransaction:
		return "Transaction"
	default:
		return "Noise"
	}
}

var columnSplitRe = regexp.MustCompile(`\n|\s{2,}`)

// splitColumns splits a merged-cell text blob into its logical columns
// on newlines and runs of two or more spaces.
func splitColumns(s string) []string {
	var out []string
	for _, f := range columnSplitRe.Split(s, -1) {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// collapse folds whitespace runs (including newlines from wrapped cells)
// into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nonEmpty drops cells holding only whitespace.
func nonEmpty(cells []sheet.Cell) []sheet.Cell {
	var out []sheet.Cell
	for _, c := range cells {
		if strings.TrimSpace(c.Text) != "" {
			out = append(out, c)
		}
	}
	return out
}

// cellTexts returns raw cell texts for error reporting.
func cellTexts(cells []sheet.Cell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.Text
	}
	return out
}

// rowFields normalizes a row to its logical fields: a single merged cell
// is split into columns, multiple cells are used as-is.
func rowFields(cells []sheet.Cell) []string {
	if len(cells) == 1 {
		return splitColumns(cells[0].Text)
	}
	fields := make([]string, len(cells))
	for i, c := range cells {
		fields[i] = collapse(c.Text)
	}
	return fields
}

// matchesTemplate reports whether the row's leading fields exactly match
// the template, order-sensitive, after whitespace collapsing.
func matchesTemplate(cells []sheet.Cell, template []string) bool {
	fields := rowFields(cells)
	if len(fields) < len(template) {
		return false
	}
	for i, want := range template {
		if collapse(fields[i]) != collapse(want) {
			return false
		}
	}
	return true
}

// pageInfo is the row following a page header: the anchor date, the
// institution-local account identifier and the page sequence number.
type pageInfo struct {
	AnchorText string
	Account    string
	Sequence   int
}

// parsePageInfo extracts the page-info fields. The row is usually one
// merged cell with wide spacing between the four values.
func parsePageInfo(cells []sheet.Cell) (pageInfo, error) {
	fields := rowFields(cells)
	if len(fields) < 3 {
		return pageInfo{}, fmt.Errorf("page info row has %d fields, want at least 3", len(fields))
	}
	seq, err := strconv.Atoi(fields[2])
	if err != nil {
		return pageInfo{}, fmt.Errorf("invalid sequence number %q", fields[2])
	}
	return pageInfo{
		AnchorText: fields[0],
		Account:    fields[1],
		Sequence:   seq,
	}, nil
}

// balanceBlock is the parsed four-field balance summary.
type balanceBlock struct {
	Opening  money.Amount
	Received money.Amount
	Spent    money.Amount
	Closing  money.Amount
}

// parseBalanceRow parses the balance-summary row: a label line matching
// the profile's four-field balance template followed by a value line of
// amount/sign pairs ("€ 1.801,55  Af  € 1.827,97  Bij  ...").
func parseBalanceRow(cells []sheet.Cell, p *institution.Profile) (*balanceBlock, error) {
	var texts []string
	for _, c := range cells {
		texts = append(texts, c.Text)
	}
	lines := strings.Split(strings.Join(texts, "\n"), "\n")
	if len(lines) < 2 {
		return nil, fmt.Errorf("balance row has no value line")
	}

	labels := splitColumns(lines[0])
	if len(labels) != len(p.BalanceFields) {
		return nil, fmt.Errorf("balance labels %q do not match template %q", labels, p.BalanceFields)
	}
	for i, want := range p.BalanceFields {
		if collapse(labels[i]) != collapse(want) {
			return nil, fmt.Errorf("balance label %q does not match template %q", labels[i], want)
		}
	}

	values, err := parseBalanceValues(strings.Join(lines[1:], "  "), p)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("balance row has %d values, want 4", len(values))
	}
	return &balanceBlock{
		Opening:  values[0],
		Received: values[1],
		Spent:    values[2],
		Closing:  values[3],
	}, nil
}

// parseBalanceValues tokenizes the value line into signed amounts: each
// sign token applies to the amount preceding it.
func parseBalanceValues(line string, p *institution.Profile) ([]money.Amount, error) {
	var values []money.Amount
	for _, tok := range splitColumns(line) {
		if tok == p.DebitToken || tok == p.CreditToken {
			if len(values) == 0 {
				return nil, fmt.Errorf("balance sign token %q with no preceding amount", tok)
			}
			last := &values[len(values)-1]
			signed, err := money.ApplySign(last.Number.Abs(), tok, p.DebitToken, p.CreditToken)
			if err != nil {
				return nil, err
			}
			last.Number = signed
			continue
		}
		n, err := money.ParseDecimal(tok)
		if err != nil {
			return nil, fmt.Errorf("balance value %q: %w", tok, err)
		}
		values = append(values, money.Amount{Number: n, Currency: p.Currency})
	}
	return values, nil
}

// net returns opening + delta as an amount in the opening's currency.
func net(opening money.Amount, delta decimal.Decimal) money.Amount {
	return money.Amount{Number: opening.Number.Add(delta), Currency: opening.Currency}
}
