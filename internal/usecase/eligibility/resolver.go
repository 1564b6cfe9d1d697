package eligibility

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// Classify places income relative to a phase-out range:
// below Start is Full, [Start, End) is Partial, End and above is None
func Classify(income decimal.Decimal, r domain.PhaseoutRange) domain.EligibilityTier {
	if income.LessThan(r.Start) {
		return domain.EligibilityFull
	}
	if income.LessThan(r.End) {
		return domain.EligibilityPartial
	}
	return domain.EligibilityNone
}

// RothEligibility classifies direct Roth IRA contribution eligibility
func RothEligibility(table *domain.TaxTable, income decimal.Decimal, filing domain.FilingStatus) domain.EligibilityTier {
	return Classify(income, table.RothPhaseout[filing])
}

// TraditionalDeductibility classifies how much of a Traditional IRA contribution is deductible
// for a saver covered by an employer plan
func TraditionalDeductibility(table *domain.TaxTable, income decimal.Decimal, filing domain.FilingStatus) domain.EligibilityTier {
	return Classify(income, table.TraditionalPhaseout[filing])
}
