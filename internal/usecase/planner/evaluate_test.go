package planner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func input(income int64, filing domain.FilingStatus, age int) domain.PlanInput {
	return domain.PlanInput{Income: decimal.NewFromInt(income), FilingStatus: filing, Age: age}
}

func TestEvaluate_ScenarioA_YoungMarriedLowBracket(t *testing.T) {
	plan := Evaluate(domain.DefaultTaxTable(), input(75000, domain.FilingStatusMarriedFilingJointly, 30))

	assert.Equal(t, domain.Percent(12), plan.MarginalRate)
	assert.Equal(t, domain.EligibilityFull, plan.RothEligibility)
	assert.Equal(t, domain.EligibilityFull, plan.TraditionalDeductibility)
	assert.Equal(t, domain.LabelRoth, plan.EmployerPlanRecommendation.Label)
	assert.Equal(t, domain.LabelRoth, plan.IRARecommendation.Label)
	assert.Equal(t, "low-rate-roth", plan.IRARecommendation.Rule)
	assert.Equal(t, domain.LabelMaxed, plan.HSARecommendation.Label)
	assert.Equal(t, 35, plan.YearsToHorizon)

	wantLimits := domain.ContributionLimits{
		HSA:             decimal.NewFromInt(8750),
		EmployerPlan:    decimal.NewFromInt(24500),
		IRA:             decimal.NewFromInt(7500),
		EmployerCatchUp: domain.CatchUpNone,
	}
	if diff := cmp.Diff(wantLimits, plan.Limits, decimalEqual); diff != "" {
		t.Errorf("limits mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_ScenarioB_HighEarnerSingle52(t *testing.T) {
	plan := Evaluate(domain.DefaultTaxTable(), input(260000, domain.FilingStatusSingle, 52))

	assert.Equal(t, domain.Percent(35), plan.MarginalRate)
	assert.Equal(t, domain.EligibilityNone, plan.RothEligibility)
	assert.Equal(t, domain.LabelBackdoorRoth, plan.IRARecommendation.Label)
	assert.Equal(t, domain.LabelTraditional, plan.EmployerPlanRecommendation.Label)
	assert.True(t, plan.Limits.IRA.Equal(decimal.NewFromInt(8600)), "IRA limit should include the 50+ catch-up, got %s", plan.Limits.IRA)
	assert.True(t, plan.Limits.IRACatchUp)
}

func TestEvaluate_ScenarioC_SuperCatchUpWindow(t *testing.T) {
	table := domain.DefaultTaxTable()

	at61 := Evaluate(table, input(90000, domain.FilingStatusSingle, 61))
	at58 := Evaluate(table, input(90000, domain.FilingStatusSingle, 58))

	assert.Equal(t, domain.CatchUpSuper, at61.Limits.EmployerCatchUp)
	assert.True(t, at61.Limits.EmployerPlan.Equal(decimal.NewFromInt(35750)))
	assert.True(t, at61.Limits.EmployerPlan.GreaterThan(at58.Limits.EmployerPlan))
}

func TestEvaluate_ScenarioD_AtRetirementAgeProjectsNothing(t *testing.T) {
	plan := Evaluate(domain.DefaultTaxTable(), input(120000, domain.FilingStatusMarriedFilingJointly, 65))

	assert.Equal(t, 0, plan.YearsToHorizon)
	assert.True(t, plan.Projections.HSA.IsZero())
	assert.True(t, plan.Projections.EmployerPlan.IsZero())
	assert.True(t, plan.Projections.IRA.IsZero())
	assert.True(t, plan.TotalProjection.IsZero())
}

func TestEvaluate_OneYearProjection(t *testing.T) {
	plan := Evaluate(domain.DefaultTaxTable(), input(90000, domain.FilingStatusSingle, 64))

	// HSA 4400 + 1000 catch-up, employer 24500 + 8000, IRA 7500 + 1100, one year at 7%
	want := domain.Projections{
		HSA:          decimal.NewFromInt(5778),
		EmployerPlan: decimal.NewFromInt(34775),
		IRA:          decimal.NewFromInt(9202),
	}
	if diff := cmp.Diff(want, plan.Projections, decimalEqual); diff != "" {
		t.Errorf("projections mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, plan.TotalProjection.Equal(decimal.NewFromInt(49755)))
}

func TestEvaluate_ConsiderBothFallthrough(t *testing.T) {
	// Single 70k: 22% bracket, full Roth, full deduction -> no rule before the last one matches
	plan := Evaluate(domain.DefaultTaxTable(), input(70000, domain.FilingStatusSingle, 40))

	assert.Equal(t, domain.Percent(22), plan.MarginalRate)
	assert.Equal(t, domain.LabelConsiderBoth, plan.IRARecommendation.Label)
	assert.Equal(t, domain.LabelConsiderBoth, plan.EmployerPlanRecommendation.Label)
}

func TestEvaluate_EchoesPhaseoutsAndPriorities(t *testing.T) {
	table := domain.DefaultTaxTable()
	plan := Evaluate(table, input(160000, domain.FilingStatusSingle, 45))

	assert.Equal(t, domain.EligibilityPartial, plan.RothEligibility)
	assert.Equal(t, domain.LabelPartial, plan.IRARecommendation.Label)
	assert.True(t, plan.RothPhaseout.Start.Equal(decimal.NewFromInt(153000)))
	assert.True(t, plan.TraditionalPhaseout.End.Equal(decimal.NewFromInt(91000)))

	recs := plan.Recommendations()
	require.Len(t, recs, 3)
	for i, r := range recs {
		assert.Equal(t, i+1, r.Priority)
	}
}
