package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// yamlDecimal reads and writes decimals as plain YAML scalars so that
// 12400 and "12400" both load without float rounding.
type yamlDecimal struct {
	decimal.Decimal
}

func (d *yamlDecimal) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	parsed, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q: %w", value.Line, value.Value, err)
	}
	d.Decimal = parsed
	return nil
}

func (d yamlDecimal) MarshalYAML() (interface{}, error) {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: d.String()}, nil
}

type yamlBracket struct {
	Min  yamlDecimal  `yaml:"min"`
	Max  *yamlDecimal `yaml:"max,omitempty"`
	Rate int          `yaml:"rate"`
}

type yamlRange struct {
	Start yamlDecimal `yaml:"start"`
	End   yamlDecimal `yaml:"end"`
}

type yamlTaxTable struct {
	TaxYear        int                      `yaml:"tax_year"`
	RetirementAge  int                      `yaml:"retirement_age"`
	ExpectedReturn yamlDecimal              `yaml:"expected_return"`
	Brackets       map[string][]yamlBracket `yaml:"brackets"`
	Phaseouts      struct {
		Roth        map[string]yamlRange `yaml:"roth"`
		Traditional map[string]yamlRange `yaml:"traditional"`
	} `yaml:"phaseouts"`
	Limits struct {
		HSASelfOnly          yamlDecimal `yaml:"hsa_self_only"`
		HSAFamily            yamlDecimal `yaml:"hsa_family"`
		HSACatchUp           yamlDecimal `yaml:"hsa_catch_up"`
		EmployerPlan         yamlDecimal `yaml:"employer_plan"`
		EmployerCatchUp      yamlDecimal `yaml:"employer_catch_up"`
		EmployerSuperCatchUp yamlDecimal `yaml:"employer_super_catch_up"`
		IRA                  yamlDecimal `yaml:"ira"`
		IRACatchUp           yamlDecimal `yaml:"ira_catch_up"`
	} `yaml:"limits"`
}

// LoadTaxTable reads and validates a YAML tax table file
func LoadTaxTable(path string) (*domain.TaxTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tax table: %w", err)
	}
	defer f.Close()

	return DecodeTaxTable(f)
}

// DecodeTaxTable parses a YAML tax table and validates it.
// Unknown keys are rejected so that typos do not silently zero a limit.
func DecodeTaxTable(r io.Reader) (*domain.TaxTable, error) {
	var raw yamlTaxTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse tax table: empty document")
		}
		return nil, fmt.Errorf("parse tax table: %w", err)
	}

	table := &domain.TaxTable{
		TaxYear:             raw.TaxYear,
		Brackets:            make(map[domain.FilingStatus][]domain.Bracket),
		RothPhaseout:        make(map[domain.FilingStatus]domain.PhaseoutRange),
		TraditionalPhaseout: make(map[domain.FilingStatus]domain.PhaseoutRange),
		Limits: domain.ContributionConstants{
			HSASelfOnly:          raw.Limits.HSASelfOnly.Decimal,
			HSAFamily:            raw.Limits.HSAFamily.Decimal,
			HSACatchUp:           raw.Limits.HSACatchUp.Decimal,
			EmployerPlan:         raw.Limits.EmployerPlan.Decimal,
			EmployerCatchUp:      raw.Limits.EmployerCatchUp.Decimal,
			EmployerSuperCatchUp: raw.Limits.EmployerSuperCatchUp.Decimal,
			IRA:                  raw.Limits.IRA.Decimal,
			IRACatchUp:           raw.Limits.IRACatchUp.Decimal,
		},
		RetirementAge:  raw.RetirementAge,
		ExpectedReturn: raw.ExpectedReturn.Decimal,
	}

	for key, brackets := range raw.Brackets {
		fs, err := domain.ParseFilingStatus(key)
		if err != nil {
			return nil, fmt.Errorf("brackets: %w", err)
		}
		if _, dup := table.Brackets[fs]; dup {
			return nil, fmt.Errorf("brackets: %s is listed more than once", fs.Short())
		}
		out := make([]domain.Bracket, 0, len(brackets))
		for _, b := range brackets {
			bracket := domain.Bracket{Min: b.Min.Decimal, Rate: domain.Percent(b.Rate)}
			if b.Max != nil {
				upper := b.Max.Decimal
				bracket.Max = &upper
			}
			out = append(out, bracket)
		}
		table.Brackets[fs] = out
	}

	if err := copyRanges(raw.Phaseouts.Roth, table.RothPhaseout); err != nil {
		return nil, fmt.Errorf("phaseouts.roth: %w", err)
	}
	if err := copyRanges(raw.Phaseouts.Traditional, table.TraditionalPhaseout); err != nil {
		return nil, fmt.Errorf("phaseouts.traditional: %w", err)
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

func copyRanges(src map[string]yamlRange, dst map[domain.FilingStatus]domain.PhaseoutRange) error {
	for key, r := range src {
		fs, err := domain.ParseFilingStatus(key)
		if err != nil {
			return err
		}
		if _, dup := dst[fs]; dup {
			return fmt.Errorf("%s is listed more than once", fs.Short())
		}
		dst[fs] = domain.PhaseoutRange{Start: r.Start.Decimal, End: r.End.Decimal}
	}
	return nil
}

// EncodeTaxTable writes table in the format DecodeTaxTable reads
func EncodeTaxTable(w io.Writer, table *domain.TaxTable) error {
	raw := yamlTaxTable{
		TaxYear:        table.TaxYear,
		RetirementAge:  table.RetirementAge,
		ExpectedReturn: yamlDecimal{table.ExpectedReturn},
		Brackets:       make(map[string][]yamlBracket),
	}
	raw.Phaseouts.Roth = make(map[string]yamlRange)
	raw.Phaseouts.Traditional = make(map[string]yamlRange)

	for _, fs := range domain.FilingStatuses() {
		brackets, ok := table.Brackets[fs]
		if ok {
			out := make([]yamlBracket, 0, len(brackets))
			for _, b := range brackets {
				yb := yamlBracket{Min: yamlDecimal{b.Min}, Rate: int(b.Rate)}
				if b.Max != nil {
					yb.Max = &yamlDecimal{*b.Max}
				}
				out = append(out, yb)
			}
			raw.Brackets[fs.Short()] = out
		}
		if r, ok := table.RothPhaseout[fs]; ok {
			raw.Phaseouts.Roth[fs.Short()] = yamlRange{Start: yamlDecimal{r.Start}, End: yamlDecimal{r.End}}
		}
		if r, ok := table.TraditionalPhaseout[fs]; ok {
			raw.Phaseouts.Traditional[fs.Short()] = yamlRange{Start: yamlDecimal{r.Start}, End: yamlDecimal{r.End}}
		}
	}

	raw.Limits.HSASelfOnly = yamlDecimal{table.Limits.HSASelfOnly}
	raw.Limits.HSAFamily = yamlDecimal{table.Limits.HSAFamily}
	raw.Limits.HSACatchUp = yamlDecimal{table.Limits.HSACatchUp}
	raw.Limits.EmployerPlan = yamlDecimal{table.Limits.EmployerPlan}
	raw.Limits.EmployerCatchUp = yamlDecimal{table.Limits.EmployerCatchUp}
	raw.Limits.EmployerSuperCatchUp = yamlDecimal{table.Limits.EmployerSuperCatchUp}
	raw.Limits.IRA = yamlDecimal{table.Limits.IRA}
	raw.Limits.IRACatchUp = yamlDecimal{table.Limits.IRACatchUp}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&raw); err != nil {
		return fmt.Errorf("encode tax table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode tax table: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
