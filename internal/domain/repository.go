package domain

import (
	"context"
	"errors"
)

// ErrTaxTableNotFound is returned when no reference table exists for a tax year
var ErrTaxTableNotFound = errors.New("tax table not found")

// TaxTableRepository defines the interface for tax table persistence operations
type TaxTableRepository interface {
	// GetByYear retrieves the reference table for a tax year.
	// Returns an error wrapping ErrTaxTableNotFound if none exists.
	GetByYear(ctx context.Context, year int) (*TaxTable, error)

	// Save creates or replaces the table for table.TaxYear
	Save(ctx context.Context, table *TaxTable) error

	// ListYears returns the stored tax years in ascending order
	ListYears(ctx context.Context) ([]int, error)
}

// PlanCache memoizes evaluated plans keyed by table year and inputs.
// Implementations must treat failures as misses; a cache is never required for correctness.
type PlanCache interface {
	// Get returns the cached plan and true on a hit
	Get(ctx context.Context, key string) (*Plan, bool)

	// Set stores a plan under key
	Set(ctx context.Context, key string, plan *Plan) error
}
