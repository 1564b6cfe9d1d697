package eligibility

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

func TestClassify(t *testing.T) {
	r := domain.PhaseoutRange{Start: decimal.NewFromInt(153000), End: decimal.NewFromInt(168000)}

	tests := []struct {
		income int64
		want   domain.EligibilityTier
	}{
		{income: 0, want: domain.EligibilityFull},
		{income: 152999, want: domain.EligibilityFull},
		{income: 153000, want: domain.EligibilityPartial},
		{income: 160000, want: domain.EligibilityPartial},
		{income: 167999, want: domain.EligibilityPartial},
		{income: 168000, want: domain.EligibilityNone},
		{income: 350000, want: domain.EligibilityNone},
	}

	for _, tt := range tests {
		got := Classify(decimal.NewFromInt(tt.income), r)
		assert.Equal(t, tt.want, got, "income %d", tt.income)
	}
}

func TestRothEligibility_UsesFilingStatusRange(t *testing.T) {
	table := domain.DefaultTaxTable()
	income := decimal.NewFromInt(200000)

	// 200k is past the Single Roth range but well inside MFJ full eligibility
	assert.Equal(t, domain.EligibilityNone, RothEligibility(table, income, domain.FilingStatusSingle))
	assert.Equal(t, domain.EligibilityFull, RothEligibility(table, income, domain.FilingStatusMarriedFilingJointly))
}

func TestTraditionalDeductibility_UsesFilingStatusRange(t *testing.T) {
	table := domain.DefaultTaxTable()

	tests := []struct {
		name   string
		income int64
		filing domain.FilingStatus
		want   domain.EligibilityTier
	}{
		{name: "Single below range", income: 75000, filing: domain.FilingStatusSingle, want: domain.EligibilityFull},
		{name: "Single inside range", income: 85000, filing: domain.FilingStatusSingle, want: domain.EligibilityPartial},
		{name: "Single past range", income: 91000, filing: domain.FilingStatusSingle, want: domain.EligibilityNone},
		{name: "MFJ below range", income: 128999, filing: domain.FilingStatusMarriedFilingJointly, want: domain.EligibilityFull},
		{name: "MFJ on start", income: 129000, filing: domain.FilingStatusMarriedFilingJointly, want: domain.EligibilityPartial},
		{name: "MFJ past range", income: 150000, filing: domain.FilingStatusMarriedFilingJointly, want: domain.EligibilityNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TraditionalDeductibility(table, decimal.NewFromInt(tt.income), tt.filing)
			assert.Equal(t, tt.want, got)
		})
	}
}
