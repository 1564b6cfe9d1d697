package domain

import "github.com/shopspring/decimal"

// EligibilityTier classifies where an income falls relative to a phase-out range
type EligibilityTier string

const (
	EligibilityFull    EligibilityTier = "FULL"
	EligibilityPartial EligibilityTier = "PARTIAL"
	EligibilityNone    EligibilityTier = "NONE"
)

// AccountType identifies one of the three tax-advantaged savings vehicles
type AccountType string

const (
	AccountTypeHSA          AccountType = "HSA"
	AccountTypeEmployerPlan AccountType = "EMPLOYER_PLAN"
	AccountTypeIRA          AccountType = "IRA"
)

// RecommendationLabel is the headline action for an account
type RecommendationLabel string

const (
	LabelRoth         RecommendationLabel = "ROTH"
	LabelTraditional  RecommendationLabel = "TRADITIONAL"
	LabelConsiderBoth RecommendationLabel = "CONSIDER_BOTH"
	LabelBackdoorRoth RecommendationLabel = "BACKDOOR_ROTH"
	LabelPartial      RecommendationLabel = "PARTIAL"
	LabelMaxed        RecommendationLabel = "MAXED"
)

// CatchUpKind records which employer-plan age allowance applied
type CatchUpKind string

const (
	CatchUpNone     CatchUpKind = "NONE"
	CatchUpStandard CatchUpKind = "STANDARD"
	CatchUpSuper    CatchUpKind = "SUPER"
)

// MaxAge is the oldest age callers accept as input
const MaxAge = 150

// PlanInput is what the caller supplies for one evaluation.
// Range checks (non-negative income, age between 0 and MaxAge) are the caller's job.
type PlanInput struct {
	Income       decimal.Decimal `json:"income"`
	FilingStatus FilingStatus    `json:"filing_status"`
	Age          int             `json:"age"`
}

// ContributionLimits are the effective annual ceilings for one saver
type ContributionLimits struct {
	HSA          decimal.Decimal `json:"hsa"`
	EmployerPlan decimal.Decimal `json:"employer_plan"`
	IRA          decimal.Decimal `json:"ira"`

	HSACatchUp      bool        `json:"hsa_catch_up"`
	EmployerCatchUp CatchUpKind `json:"employer_catch_up"`
	IRACatchUp      bool        `json:"ira_catch_up"`
}

// Recommendation is the ranked advice for one account.
// Rule names the cascade rule that produced it.
type Recommendation struct {
	AccountType AccountType         `json:"account_type"`
	Label       RecommendationLabel `json:"label"`
	Rationale   string              `json:"rationale"`
	Priority    int                 `json:"priority"`
	Rule        string              `json:"rule"`
}

// Projections are future values of maxing each account until the horizon
type Projections struct {
	HSA          decimal.Decimal `json:"hsa"`
	EmployerPlan decimal.Decimal `json:"employer_plan"`
	IRA          decimal.Decimal `json:"ira"`
}

// Total is the combined value of maxing all three accounts
func (p Projections) Total() decimal.Decimal {
	return p.HSA.Add(p.EmployerPlan).Add(p.IRA)
}

// Plan is the full result of one evaluation. It is created per request and never stored
// beyond the result cache.
type Plan struct {
	TaxYear      int       `json:"tax_year"`
	Input        PlanInput `json:"input"`
	MarginalRate Percent   `json:"marginal_rate"`

	RothEligibility          EligibilityTier `json:"roth_eligibility"`
	TraditionalDeductibility EligibilityTier `json:"traditional_deductibility"`
	RothPhaseout             PhaseoutRange   `json:"roth_phaseout"`
	TraditionalPhaseout      PhaseoutRange   `json:"traditional_phaseout"`

	Limits ContributionLimits `json:"limits"`

	HSARecommendation          Recommendation `json:"hsa_recommendation"`
	EmployerPlanRecommendation Recommendation `json:"employer_plan_recommendation"`
	IRARecommendation          Recommendation `json:"ira_recommendation"`

	YearsToHorizon  int             `json:"years_to_horizon"`
	ExpectedReturn  decimal.Decimal `json:"expected_return"`
	Projections     Projections     `json:"projections"`
	TotalProjection decimal.Decimal `json:"total_projection"`
}

// Recommendations returns the three recommendations in priority order
func (p *Plan) Recommendations() []Recommendation {
	return []Recommendation{p.HSARecommendation, p.EmployerPlanRecommendation, p.IRARecommendation}
}
