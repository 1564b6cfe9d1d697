package domain

import "github.com/shopspring/decimal"

// DefaultTaxYear is the year of the compiled-in reference table
const DefaultTaxYear = 2026

// DefaultTaxTable returns a fresh copy of the compiled-in 2026 IRS brackets and limits
func DefaultTaxTable() *TaxTable {
	return &TaxTable{
		TaxYear: DefaultTaxYear,
		Brackets: map[FilingStatus][]Bracket{
			FilingStatusSingle: brackets(
				[]int64{0, 12400, 50400, 105700, 201775, 256225, 640600},
				[]Percent{10, 12, 22, 24, 32, 35, 37},
			),
			FilingStatusMarriedFilingJointly: brackets(
				[]int64{0, 24800, 100800, 211400, 403550, 512450, 768700},
				[]Percent{10, 12, 22, 24, 32, 35, 37},
			),
		},
		RothPhaseout: map[FilingStatus]PhaseoutRange{
			FilingStatusSingle:               phaseout(153000, 168000),
			FilingStatusMarriedFilingJointly: phaseout(242000, 252000),
		},
		TraditionalPhaseout: map[FilingStatus]PhaseoutRange{
			FilingStatusSingle:               phaseout(81000, 91000),
			FilingStatusMarriedFilingJointly: phaseout(129000, 149000),
		},
		Limits: ContributionConstants{
			HSASelfOnly:          decimal.NewFromInt(4400),
			HSAFamily:            decimal.NewFromInt(8750),
			HSACatchUp:           decimal.NewFromInt(1000),
			EmployerPlan:         decimal.NewFromInt(24500),
			EmployerCatchUp:      decimal.NewFromInt(8000),
			EmployerSuperCatchUp: decimal.NewFromInt(11250),
			IRA:                  decimal.NewFromInt(7500),
			IRACatchUp:           decimal.NewFromInt(1100),
		},
		RetirementAge:  65,
		ExpectedReturn: decimal.RequireFromString("0.07"),
	}
}

// brackets builds a contiguous bracket sequence from ascending lower bounds
func brackets(mins []int64, rates []Percent) []Bracket {
	out := make([]Bracket, len(mins))
	for i := range mins {
		out[i] = Bracket{Min: decimal.NewFromInt(mins[i]), Rate: rates[i]}
		if i+1 < len(mins) {
			upper := decimal.NewFromInt(mins[i+1])
			out[i].Max = &upper
		}
	}
	return out
}

func phaseout(start, end int64) PhaseoutRange {
	return PhaseoutRange{Start: decimal.NewFromInt(start), End: decimal.NewFromInt(end)}
}
