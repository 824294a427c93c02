package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankfeed/internal/institution"
	"github.com/cleared-dev/bankfeed/internal/sheet"
)

func cellsOf(texts ...string) []sheet.Cell {
	out := make([]sheet.Cell, len(texts))
	for i, t := range texts {
		out[i] = sheet.Cell{Text: t}
	}
	return out
}

func TestMergedBannerRow_SplitsTrailingSignToken(t *testing.T) {
	rule := MergedBannerRow{Profile: institution.ICS()}

	out, res := rule.Apply(cellsOf("13 jan  14 jan  SNCF OUIGO  45.00  Af"))
	require.Equal(t, RuleRepaired, res)
	require.Len(t, out, 5)
	assert.Equal(t, "13 jan", out[0].Text)
	assert.Equal(t, "14 jan", out[1].Text)
	assert.Equal(t, "SNCF OUIGO", out[2].Text)
	assert.Equal(t, "45.00", out[3].Text)
	assert.Equal(t, "Af", out[4].Text)
}

func TestMergedBannerRow_BannerIsNoise(t *testing.T) {
	rule := MergedBannerRow{Profile: institution.ICS()}

	_, res := rule.Apply(cellsOf("Uw Card met als laatste vier cijfers 0467\nG.J.L.M. PAULISSEN"))
	assert.Equal(t, RuleNoise, res)
}

func TestMergedBannerRow_BoilerplateNotApplicable(t *testing.T) {
	rule := MergedBannerRow{Profile: institution.ICS()}

	_, res := rule.Apply(cellsOf("Bestedingslimiet                 Minimaal te betalen bedrag"))
	assert.Equal(t, RuleNotApplicable, res)
}

func TestMergedBannerRow_MultiCellNotApplicable(t *testing.T) {
	rule := MergedBannerRow{Profile: institution.ICS()}

	_, res := rule.Apply(cellsOf("Wisselkoers USD", "1.09413"))
	assert.Equal(t, RuleNotApplicable, res)
}

func TestSplitDescriptionRow(t *testing.T) {
	rule := SplitDescriptionRow{Width: 25}

	out, res := rule.Apply(cellsOf(
		"20 dec", "21 dec",
		"NETFLIX.COM                866-579-7172",
		"NL", "7.99", "Af"))
	require.Equal(t, RuleRepaired, res)
	require.Len(t, out, 7)
	assert.Equal(t, "NETFLIX.COM", out[2].Text)
	assert.Equal(t, "866-579-7172", out[3].Text)
	assert.Equal(t, "NL", out[4].Text)
	assert.Equal(t, "7.99", out[5].Text)
	assert.Equal(t, "Af", out[6].Text)
}

func TestSplitDescriptionRow_ShortDescription(t *testing.T) {
	rule := SplitDescriptionRow{Width: 25}

	out, res := rule.Apply(cellsOf("20 dec", "21 dec", "SHOP", "NL", "7.99", "Af"))
	require.Equal(t, RuleRepaired, res)
	require.Len(t, out, 7)
	assert.Equal(t, "SHOP", out[2].Text)
	assert.Equal(t, "", out[3].Text)
}

func TestSplitDescriptionRow_WrongShape(t *testing.T) {
	rule := SplitDescriptionRow{Width: 25}

	_, res := rule.Apply(cellsOf("a", "b", "c"))
	assert.Equal(t, RuleNotApplicable, res)
}

func TestPassThrough(t *testing.T) {
	in := cellsOf("a", "b")
	out, res := PassThrough{}.Apply(in)
	assert.Equal(t, RuleRepaired, res)
	assert.Equal(t, in, out)
}

func TestNormalize_Order(t *testing.T) {
	rules := defaultRules(institution.ICS())

	// A merged transaction row is handled by MergedBannerRow.
	out, name, res := normalize(rules, cellsOf("13 jan  14 jan  SNCF OUIGO  45.00  Af"))
	assert.Equal(t, "MergedBannerRow", name)
	assert.Equal(t, RuleRepaired, res)
	assert.Len(t, out, 5)

	// Anything unrecognized falls through to PassThrough unchanged.
	out, name, res = normalize(rules, cellsOf("x", "y", "z"))
	assert.Equal(t, "PassThrough", name)
	assert.Equal(t, RuleRepaired, res)
	assert.Len(t, out, 3)
}
