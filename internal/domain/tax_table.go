package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a whole-number tax rate (22 means 22%)
type Percent int

// Bracket is one marginal tax bracket. Max is nil for the terminal, unbounded bracket.
type Bracket struct {
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max,omitempty"`
	Rate Percent          `json:"rate"`
}

// PhaseoutRange is the income window over which a tax benefit is reduced and then eliminated
type PhaseoutRange struct {
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
}

// Validate ensures the range is non-empty
func (p PhaseoutRange) Validate() error {
	if !p.Start.LessThan(p.End) {
		return fmt.Errorf("phase-out start %s must be below end %s", p.Start, p.End)
	}
	return nil
}

// ContributionConstants holds the statutory contribution limits for one tax year
type ContributionConstants struct {
	HSASelfOnly          decimal.Decimal `json:"hsa_self_only"`
	HSAFamily            decimal.Decimal `json:"hsa_family"`
	HSACatchUp           decimal.Decimal `json:"hsa_catch_up"`
	EmployerPlan         decimal.Decimal `json:"employer_plan"`
	EmployerCatchUp      decimal.Decimal `json:"employer_catch_up"`
	EmployerSuperCatchUp decimal.Decimal `json:"employer_super_catch_up"`
	IRA                  decimal.Decimal `json:"ira"`
	IRACatchUp           decimal.Decimal `json:"ira_catch_up"`
}

// TaxTable is the reference data for a single tax year.
// A table is built once (compiled in, loaded from YAML or from Postgres) and then only read.
type TaxTable struct {
	TaxYear             int
	Brackets            map[FilingStatus][]Bracket
	RothPhaseout        map[FilingStatus]PhaseoutRange
	TraditionalPhaseout map[FilingStatus]PhaseoutRange
	Limits              ContributionConstants

	// Projection assumptions
	RetirementAge  int
	ExpectedReturn decimal.Decimal
}

// ErrMalformedTaxTable wraps every TaxTable validation failure
var ErrMalformedTaxTable = errors.New("malformed tax table")

// Validate checks the invariants every resolver relies on:
// each filing status has brackets covering [0, ∞) contiguously with exactly one
// unbounded terminal bracket and non-decreasing rates, and non-empty phase-out ranges.
func (t *TaxTable) Validate() error {
	if t.TaxYear <= 0 {
		return fmt.Errorf("%w: tax year must be positive", ErrMalformedTaxTable)
	}

	for _, fs := range FilingStatuses() {
		if err := validateBrackets(t.Brackets[fs]); err != nil {
			return fmt.Errorf("%w: %d %s brackets: %v", ErrMalformedTaxTable, t.TaxYear, fs, err)
		}

		roth, ok := t.RothPhaseout[fs]
		if !ok {
			return fmt.Errorf("%w: %d has no Roth phase-out for %s", ErrMalformedTaxTable, t.TaxYear, fs)
		}
		if err := roth.Validate(); err != nil {
			return fmt.Errorf("%w: %d %s Roth phase-out: %v", ErrMalformedTaxTable, t.TaxYear, fs, err)
		}

		trad, ok := t.TraditionalPhaseout[fs]
		if !ok {
			return fmt.Errorf("%w: %d has no Traditional phase-out for %s", ErrMalformedTaxTable, t.TaxYear, fs)
		}
		if err := trad.Validate(); err != nil {
			return fmt.Errorf("%w: %d %s Traditional phase-out: %v", ErrMalformedTaxTable, t.TaxYear, fs, err)
		}
	}

	limits := map[string]decimal.Decimal{
		"hsa_self_only":           t.Limits.HSASelfOnly,
		"hsa_family":              t.Limits.HSAFamily,
		"hsa_catch_up":            t.Limits.HSACatchUp,
		"employer_plan":           t.Limits.EmployerPlan,
		"employer_catch_up":       t.Limits.EmployerCatchUp,
		"employer_super_catch_up": t.Limits.EmployerSuperCatchUp,
		"ira":                     t.Limits.IRA,
		"ira_catch_up":            t.Limits.IRACatchUp,
	}
	for name, v := range limits {
		if v.IsNegative() {
			return fmt.Errorf("%w: limit %s must not be negative", ErrMalformedTaxTable, name)
		}
	}

	if t.RetirementAge <= 0 {
		return fmt.Errorf("%w: retirement age must be positive", ErrMalformedTaxTable)
	}
	if t.ExpectedReturn.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return fmt.Errorf("%w: expected return must be above -100%%", ErrMalformedTaxTable)
	}

	return nil
}

func validateBrackets(brackets []Bracket) error {
	if len(brackets) == 0 {
		return errors.New("no brackets defined")
	}
	if !brackets[0].Min.IsZero() {
		return errors.New("first bracket must start at 0")
	}

	for i, b := range brackets {
		if b.Rate < 0 {
			return fmt.Errorf("bracket %d rate must not be negative", i)
		}
		if i > 0 && b.Rate < brackets[i-1].Rate {
			return fmt.Errorf("bracket %d rate %d%% is below bracket %d rate %d%%", i, b.Rate, i-1, brackets[i-1].Rate)
		}
		if i == len(brackets)-1 {
			if b.Max != nil {
				return errors.New("terminal bracket must be unbounded")
			}
			continue
		}
		if b.Max == nil {
			return fmt.Errorf("bracket %d is unbounded but is not the last one", i)
		}
		if !b.Max.GreaterThan(b.Min) {
			return fmt.Errorf("bracket %d max must exceed its min", i)
		}
		if !brackets[i+1].Min.Equal(*b.Max) {
			return fmt.Errorf("gap or overlap between bracket %d and %d", i, i+1)
		}
	}

	return nil
}
