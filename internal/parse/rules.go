package parse

import (
	"strings"

	"github.com/cleared-dev/bankfeed/internal/institution"
	"github.com/cleared-dev/bankfeed/internal/sheet"
)

// RuleResult is the outcome of applying one recovery rule to a row.
type RuleResult int

const (
	// RuleNotApplicable means the rule does not recognize the row.
	RuleNotApplicable RuleResult = iota
	// RuleRepaired means the rule produced a reconstructed row.
	RuleRepaired
	// RuleNoise means the rule identified the row as discardable.
	RuleNoise
)

// RecoveryRule reconstructs rows whose cell count matches no expected
// transaction shape. Rules encode historical export quirks as an
// explicit ordered list so new institution quirks are additive; each
// rule is independently testable.
type RecoveryRule interface {
	Name() string
	Apply(cells []sheet.Cell) ([]sheet.Cell, RuleResult)
}

// MergedBannerRow handles rows the spreadsheet export collapsed into a
// single text blob. A blob whose final field is the credit/debit token
// is a full logical transaction row and is split back into cells; a blob
// matching a card-holder banner pattern is noise.
type MergedBannerRow struct {
	Profile *institution.Profile
}

// Name implements RecoveryRule.
func (r MergedBannerRow) Name() string { return "MergedBannerRow" }

// Apply implements RecoveryRule.
func (r MergedBannerRow) Apply(cells []sheet.Cell) ([]sheet.Cell, RuleResult) {
	if len(cells) != 1 {
		return nil, RuleNotApplicable
	}
	text := strings.TrimSpace(cells[0].Text)
	fields := strings.Fields(text)
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		if last == r.Profile.DebitToken || last == r.Profile.CreditToken {
			cols := splitColumns(text)
			out := make([]sheet.Cell, len(cols))
			for i, c := range cols {
				out[i] = sheet.Cell{Text: c}
			}
			return out, RuleRepaired
		}
	}
	if r.Profile.IsBanner(text) {
		return nil, RuleNoise
	}
	return nil, RuleNotApplicable
}

// SplitDescriptionRow repairs six-cell rows produced when a following
// row's columns bleed into the description field: the oversized
// description cell is split into a fixed-width prefix (payee) and the
// remainder (place), both trimmed.
type SplitDescriptionRow struct {
	Width int
}

// Name implements RecoveryRule.
func (r SplitDescriptionRow) Name() string { return "SplitDescriptionRow" }

// Apply implements RecoveryRule.
func (r SplitDescriptionRow) Apply(cells []sheet.Cell) ([]sheet.Cell, RuleResult) {
	if len(cells) != 6 || r.Width <= 0 {
		return nil, RuleNotApplicable
	}
	desc := []rune(cells[2].Text)
	prefix, rest := desc, []rune(nil)
	if len(desc) > r.Width {
		prefix, rest = desc[:r.Width], desc[r.Width:]
	}

	out := make([]sheet.Cell, 0, 7)
	out = append(out, cells[0], cells[1])
	out = append(out,
		sheet.Cell{Text: strings.TrimSpace(string(prefix))},
		sheet.Cell{Text: strings.TrimSpace(string(rest))})
	out = append(out, cells[3:]...)
	return out, RuleRepaired
}

// PassThrough accepts any row unchanged. It terminates the rule list;
// rows it passes are shape-checked and demoted to noise when no
// transaction shape matches.
type PassThrough struct{}

// Name implements RecoveryRule.
func (PassThrough) Name() string { return "PassThrough" }

// Apply implements RecoveryRule.
func (PassThrough) Apply(cells []sheet.Cell) ([]sheet.Cell, RuleResult) {
	return cells, RuleRepaired
}

func defaultRules(p *institution.Profile) []RecoveryRule {
	return []RecoveryRule{
		MergedBannerRow{Profile: p},
		SplitDescriptionRow{Width: p.DescriptionSplitWidth},
		PassThrough{},
	}
}

// normalize runs the rule list over a row whose shape matched no
// expected transaction shape. It reports the reconstructed cells, the
// rule that fired, and whether the row was identified as noise.
func normalize(rules []RecoveryRule, cells []sheet.Cell) ([]sheet.Cell, string, RuleResult) {
	for _, rule := range rules {
		out, res := rule.Apply(cells)
		if res != RuleNotApplicable {
			return out, rule.Name(), res
		}
	}
	return cells, "", RuleNotApplicable
}
