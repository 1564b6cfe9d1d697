package recommendation

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// Account priority in the action plan (Lower = First)
const (
	PriorityHSA          = 1
	PriorityEmployerPlan = 2
	PriorityIRA          = 3
)

// Rule is one guard in a recommendation cascade.
// Cascades are evaluated top-down and the first rule whose Matches returns true wins.
type Rule[F any] struct {
	Name      string
	Matches   func(F) bool
	Label     domain.RecommendationLabel
	Rationale func(F) string
}

// EmployerPlanFacts are the inputs to the employer-plan cascade
type EmployerPlanFacts struct {
	Rate domain.Percent
}

// IRAFacts are the inputs to the IRA cascade
type IRAFacts struct {
	Rate          domain.Percent
	Roth          domain.EligibilityTier
	Deductibility domain.EligibilityTier
}

var employerPlanRules = []Rule[EmployerPlanFacts]{
	{
		Name:    "low-rate-roth",
		Matches: func(f EmployerPlanFacts) bool { return f.Rate <= 12 },
		Label:   domain.LabelRoth,
		Rationale: func(f EmployerPlanFacts) string {
			return fmt.Sprintf("At the %d%% bracket, your tax rate is low. A Roth employer plan lets you pay taxes now while they are cheap and withdraw tax-free later.", f.Rate)
		},
	},
	{
		Name:    "crossover-zone",
		Matches: func(f EmployerPlanFacts) bool { return f.Rate == 22 },
		Label:   domain.LabelConsiderBoth,
		Rationale: func(f EmployerPlanFacts) string {
			return "The 22% bracket is the crossover zone. Traditional saves you money now; Roth gives tax flexibility in retirement. Many people split or lean Traditional."
		},
	},
	{
		Name:    "high-rate-traditional",
		Matches: func(EmployerPlanFacts) bool { return true },
		Label:   domain.LabelTraditional,
		Rationale: func(f EmployerPlanFacts) string {
			return fmt.Sprintf("At the %d%% bracket, the upfront deduction of a Traditional employer plan is valuable. You will likely be in a lower bracket in retirement.", f.Rate)
		},
	},
}

// Eligibility gates come before any rate-based preference.
var iraRules = []Rule[IRAFacts]{
	{
		Name:    "roth-ineligible-backdoor",
		Matches: func(f IRAFacts) bool { return f.Roth == domain.EligibilityNone },
		Label:   domain.LabelBackdoorRoth,
		Rationale: func(IRAFacts) string {
			return "Your income exceeds the Roth IRA limit. Look into a Backdoor Roth: contribute to a non-deductible Traditional IRA and convert it to Roth."
		},
	},
	{
		Name:    "roth-phaseout-partial",
		Matches: func(f IRAFacts) bool { return f.Roth == domain.EligibilityPartial },
		Label:   domain.LabelPartial,
		Rationale: func(IRAFacts) string {
			return "You are in the Roth phase-out range. You can make a reduced direct contribution, or do a Backdoor Roth (contribute Traditional, then convert)."
		},
	},
	{
		Name:    "low-rate-roth",
		Matches: func(f IRAFacts) bool { return f.Roth == domain.EligibilityFull && f.Rate <= 12 },
		Label:   domain.LabelRoth,
		Rationale: func(IRAFacts) string {
			return "Fully eligible for a Roth IRA and in a low bracket: pay low taxes now and withdraw tax-free later. Clear winner."
		},
	},
	{
		Name:    "high-rate-deductible-traditional",
		Matches: func(f IRAFacts) bool { return f.Deductibility == domain.EligibilityFull && f.Rate >= 24 },
		Label:   domain.LabelTraditional,
		Rationale: func(f IRAFacts) string {
			return fmt.Sprintf("At the %d%% bracket with a full Traditional IRA deduction available, the tax break now is very valuable.", f.Rate)
		},
	},
	{
		Name:    "deduction-impaired-roth",
		Matches: func(f IRAFacts) bool { return f.Deductibility != domain.EligibilityFull },
		Label:   domain.LabelRoth,
		Rationale: func(IRAFacts) string {
			return "A Traditional IRA is not fully deductible for you (employer plan plus income), so Roth is better: at least withdrawals will be tax-free."
		},
	},
	{
		Name:    "both-reasonable",
		Matches: func(IRAFacts) bool { return true },
		Label:   domain.LabelConsiderBoth,
		Rationale: func(f IRAFacts) string {
			return fmt.Sprintf("You are eligible for both a deductible Traditional and a Roth IRA. At %d%%, either is reasonable: Traditional for the deduction now, Roth for tax-free withdrawals later.", f.Rate)
		},
	},
}

// EmployerPlanRuleNames lists the employer-plan cascade in evaluation order
func EmployerPlanRuleNames() []string { return ruleNames(employerPlanRules) }

// IRARuleNames lists the IRA cascade in evaluation order
func IRARuleNames() []string { return ruleNames(iraRules) }

// RecommendEmployerPlan picks Roth vs Traditional for the employer plan from the marginal rate
func RecommendEmployerPlan(rate domain.Percent) domain.Recommendation {
	facts := EmployerPlanFacts{Rate: rate}
	rule := firstMatch(employerPlanRules, facts)
	return domain.Recommendation{
		AccountType: domain.AccountTypeEmployerPlan,
		Label:       rule.Label,
		Rationale:   rule.Rationale(facts),
		Priority:    PriorityEmployerPlan,
		Rule:        rule.Name,
	}
}

// RecommendIRA picks the IRA route from Roth eligibility, Traditional deductibility and the marginal rate
func RecommendIRA(roth, deductibility domain.EligibilityTier, rate domain.Percent) domain.Recommendation {
	facts := IRAFacts{Rate: rate, Roth: roth, Deductibility: deductibility}
	rule := firstMatch(iraRules, facts)
	return domain.Recommendation{
		AccountType: domain.AccountTypeIRA,
		Label:       rule.Label,
		Rationale:   rule.Rationale(facts),
		Priority:    PriorityIRA,
		Rule:        rule.Name,
	}
}

// RecommendHSA always recommends maxing the HSA and investing the balance
func RecommendHSA(filing domain.FilingStatus, limits domain.ContributionLimits) domain.Recommendation {
	coverage := "self-only"
	if filing == domain.FilingStatusMarriedFilingJointly {
		coverage = "family"
	}
	if limits.HSACatchUp {
		coverage += " + catch-up"
	}

	return domain.Recommendation{
		AccountType: domain.AccountTypeHSA,
		Label:       domain.LabelMaxed,
		Rationale: fmt.Sprintf(
			"Contribute the full %s/yr (%s). Invest it, don't spend it: save medical receipts and reimburse yourself tax-free years later. Requires enrollment in a qualifying High Deductible Health Plan (HDHP).",
			FormatMoney(limits.HSA), coverage,
		),
		Priority: PriorityHSA,
		Rule:     "always-max",
	}
}

// FormatMoney renders a whole-dollar amount as "$12,345"
func FormatMoney(d decimal.Decimal) string {
	return "$" + humanize.Comma(d.Round(0).IntPart())
}

func firstMatch[F any](rules []Rule[F], facts F) Rule[F] {
	for _, r := range rules {
		if r.Matches(facts) {
			return r
		}
	}
	// The last rule of every cascade is a catch-all
	return rules[len(rules)-1]
}

func ruleNames[F any](rules []Rule[F]) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}
