package bracket

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// ResolveBracket returns the marginal rate for income within an ordered bracket sequence.
// Logic:
//  1. Scan from the highest bracket downward
//  2. Return the rate of the first bracket whose Min is strictly below income
//
// An income exactly on a boundary therefore stays in the lower bracket.
// If nothing matches (income <= 0) the lowest defined rate is returned.
func ResolveBracket(income decimal.Decimal, brackets []domain.Bracket) domain.Percent {
	for i := len(brackets) - 1; i >= 0; i-- {
		if income.GreaterThan(brackets[i].Min) {
			return brackets[i].Rate
		}
	}
	return lowestRate(brackets)
}

// Resolve looks up the marginal rate using the brackets for filing in table
func Resolve(table *domain.TaxTable, income decimal.Decimal, filing domain.FilingStatus) domain.Percent {
	return ResolveBracket(income, table.Brackets[filing])
}

func lowestRate(brackets []domain.Bracket) domain.Percent {
	if len(brackets) == 0 {
		return 0
	}
	lowest := brackets[0].Rate
	for _, b := range brackets[1:] {
		if b.Rate < lowest {
			lowest = b.Rate
		}
	}
	return lowest
}
