package planner

import (
	"github.com/simaogato/savingsplan-backend/internal/domain"
	"github.com/simaogato/savingsplan-backend/internal/usecase/bracket"
	"github.com/simaogato/savingsplan-backend/internal/usecase/eligibility"
	"github.com/simaogato/savingsplan-backend/internal/usecase/growth"
	"github.com/simaogato/savingsplan-backend/internal/usecase/limits"
	"github.com/simaogato/savingsplan-backend/internal/usecase/recommendation"
)

// Evaluate turns one (income, filing status, age) triple into a full action plan.
// It is pure: the same table and input always produce the same plan.
func Evaluate(table *domain.TaxTable, in domain.PlanInput) *domain.Plan {
	rate := bracket.Resolve(table, in.Income, in.FilingStatus)
	roth := eligibility.RothEligibility(table, in.Income, in.FilingStatus)
	deductibility := eligibility.TraditionalDeductibility(table, in.Income, in.FilingStatus)
	lim := limits.ComputeLimits(in.Age, in.FilingStatus, table.Limits)

	years := growth.HorizonYears(in.Age, table.RetirementAge)
	projections := domain.Projections{
		HSA:          growth.Project(lim.HSA, years, table.ExpectedReturn),
		EmployerPlan: growth.Project(lim.EmployerPlan, years, table.ExpectedReturn),
		IRA:          growth.Project(lim.IRA, years, table.ExpectedReturn),
	}

	return &domain.Plan{
		TaxYear:      table.TaxYear,
		Input:        in,
		MarginalRate: rate,

		RothEligibility:          roth,
		TraditionalDeductibility: deductibility,
		RothPhaseout:             table.RothPhaseout[in.FilingStatus],
		TraditionalPhaseout:      table.TraditionalPhaseout[in.FilingStatus],

		Limits: lim,

		HSARecommendation:          recommendation.RecommendHSA(in.FilingStatus, lim),
		EmployerPlanRecommendation: recommendation.RecommendEmployerPlan(rate),
		IRARecommendation:          recommendation.RecommendIRA(roth, deductibility, rate),

		YearsToHorizon:  years,
		ExpectedReturn:  table.ExpectedReturn,
		Projections:     projections,
		TotalProjection: projections.Total(),
	}
}
