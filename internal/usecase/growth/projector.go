package growth

import (
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Project returns the future value of contributing annual at the start of each of
// years periods, compounding at rate (annuity-due), rounded to a whole currency unit.
// years <= 0 yields 0.
func Project(annual decimal.Decimal, years int, rate decimal.Decimal) decimal.Decimal {
	growth := one.Add(rate)
	total := decimal.Zero
	for i := 0; i < years; i++ {
		total = total.Add(annual).Mul(growth)
	}
	return total.Round(0)
}

// HorizonYears is the number of contribution years left before retirementAge, floored at 0
func HorizonYears(age, retirementAge int) int {
	if age >= retirementAge {
		return 0
	}
	return retirementAge - age
}
