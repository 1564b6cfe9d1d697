package limits

import (
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// Statutory age thresholds for additional contributions
const (
	CatchUpAge         = 50
	HSACatchUpAge      = 55
	SuperCatchUpMinAge = 60
	SuperCatchUpMaxAge = 63
)

// ComputeLimits derives the effective annual ceilings for a saver.
// Employer-plan bands are mutually exclusive: 60-63 gets the super catch-up
// (which replaces the standard one), other ages from 50 get the standard catch-up.
func ComputeLimits(age int, filing domain.FilingStatus, c domain.ContributionConstants) domain.ContributionLimits {
	out := domain.ContributionLimits{
		HSA:             c.HSASelfOnly,
		EmployerPlan:    c.EmployerPlan,
		IRA:             c.IRA,
		EmployerCatchUp: domain.CatchUpNone,
	}

	if filing == domain.FilingStatusMarriedFilingJointly {
		out.HSA = c.HSAFamily
	}
	if age >= HSACatchUpAge {
		out.HSA = out.HSA.Add(c.HSACatchUp)
		out.HSACatchUp = true
	}

	if age >= CatchUpAge {
		out.IRA = out.IRA.Add(c.IRACatchUp)
		out.IRACatchUp = true
	}

	switch {
	case age >= SuperCatchUpMinAge && age <= SuperCatchUpMaxAge:
		out.EmployerPlan = out.EmployerPlan.Add(c.EmployerSuperCatchUp)
		out.EmployerCatchUp = domain.CatchUpSuper
	case age >= CatchUpAge:
		out.EmployerPlan = out.EmployerPlan.Add(c.EmployerCatchUp)
		out.EmployerCatchUp = domain.CatchUpStandard
	}

	return out
}
