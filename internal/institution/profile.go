// Package institution defines the per-institution statement profile: the
// header and balance templates, accepted row shapes, month tables and
// locale details that parameterize the generic parsing pipeline. One
// engine plus one profile per bank replaces per-bank parser variants.
package institution

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Profile describes one institution's export format.
type Profile struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`

	// PageHeaderFields is the exact, order-sensitive four-field template
	// that identifies a page-header row.
	PageHeaderFields []string `yaml:"page_header_fields"`
	// BalanceFields labels the four balance figures: opening, received
	// total, spent total, closing.
	BalanceFields []string `yaml:"balance_fields"`
	// ColumnHeaderFields is the column-header template whose presence is
	// asserted after each balance row.
	ColumnHeaderFields []string `yaml:"column_header_fields"`

	// RowShapes is the set of cell counts a transaction row may have
	// after normalization.
	RowShapes []int `yaml:"row_shapes"`

	// Months and FullMonths are the locale month-name tables, index 0 =
	// January. Explicit tables replace process-wide locale state.
	Months     []string `yaml:"months"`
	FullMonths []string `yaml:"full_months"`

	// DebitToken negates an amount, CreditToken keeps it positive.
	DebitToken  string `yaml:"debit_token"`
	CreditToken string `yaml:"credit_token"`

	// BannerPatterns are regular expressions matching single-cell rows
	// (card-holder banners) that normalize to noise.
	BannerPatterns []string `yaml:"banner_patterns"`

	// DescriptionSplitWidth is the prefix length at which an oversized
	// description cell is split into payee and place.
	DescriptionSplitWidth int `yaml:"description_split_width"`

	banners []*regexp.Regexp
}

// ICS returns the built-in profile for ICScards.nl credit-card
// statements (Dutch locale, Bij/Af sign tokens).
func ICS() *Profile {
	return &Profile{
		Name:     "ics",
		Currency: "EUR",
		PageHeaderFields: []string{
			"Datum", "ICS-klantnummer", "Volgnummer", "Bladnummer",
		},
		BalanceFields: []string{
			"Vorig openstaand saldo",
			"Totaal ontvangen betalingen",
			"Totaal nieuwe uitgaven",
			"Nieuw openstaand saldo",
		},
		ColumnHeaderFields: []string{
			"Datum transactie",
			"Datum boeking",
			"Omschrijving Bedrag in vreemde valuta",
			"Bedrag in euro's",
		},
		RowShapes: []int{5, 7, 8},
		Months: []string{
			"jan", "feb", "mrt", "apr", "mei", "jun",
			"jul", "aug", "sep", "okt", "nov", "dec",
		},
		FullMonths: []string{
			"januari", "februari", "maart", "april", "mei", "juni",
			"juli", "augustus", "september", "oktober", "november", "december",
		},
		DebitToken:  "Af",
		CreditToken: "Bij",
		BannerPatterns: []string{
			`^Uw Card met als laatste vier cijfers`,
		},
		DescriptionSplitWidth: 25,
	}
}

// Load reads a profile from a YAML file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes a profile to a YAML file.
func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

// Validate checks structural completeness and compiles banner patterns.
func (p *Profile) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("profile missing name")
	case p.Currency == "":
		return fmt.Errorf("profile %s missing currency", p.Name)
	case len(p.PageHeaderFields) == 0:
		return fmt.Errorf("profile %s missing page header template", p.Name)
	case len(p.BalanceFields) != 4:
		return fmt.Errorf("profile %s: balance template must have 4 fields, has %d", p.Name, len(p.BalanceFields))
	case len(p.ColumnHeaderFields) == 0:
		return fmt.Errorf("profile %s missing column header template", p.Name)
	case len(p.RowShapes) == 0:
		return fmt.Errorf("profile %s missing row shapes", p.Name)
	case len(p.Months) != 12 || len(p.FullMonths) != 12:
		return fmt.Errorf("profile %s: month tables must have 12 entries", p.Name)
	case p.DebitToken == "" || p.CreditToken == "":
		return fmt.Errorf("profile %s missing sign tokens", p.Name)
	}
	p.banners = nil
	for _, pat := range p.BannerPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return fmt.Errorf("profile %s: banner pattern %q: %w", p.Name, pat, err)
		}
		p.banners = append(p.banners, re)
	}
	return nil
}

// AcceptsShape reports whether n is an accepted transaction row shape.
func (p *Profile) AcceptsShape(n int) bool {
	for _, s := range p.RowShapes {
		if s == n {
			return true
		}
	}
	return false
}

// IsBanner reports whether single-cell text matches a banner pattern.
func (p *Profile) IsBanner(text string) bool {
	if p.banners == nil && len(p.BannerPatterns) > 0 {
		// Profiles built in code skip Load; compile lazily.
		for _, pat := range p.BannerPatterns {
			if re, err := regexp.Compile(pat); err == nil {
				p.banners = append(p.banners, re)
			}
		}
	}
	for _, re := range p.banners {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
