package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// TableSeeder handles seeding of the reference tax table the planner runs against
type TableSeeder struct {
	repo  domain.TaxTableRepository
	table *domain.TaxTable
}

// NewTableSeeder creates a new TableSeeder instance.
// If table is nil, the compiled-in default table is seeded.
func NewTableSeeder(repo domain.TaxTableRepository, table *domain.TaxTable) *TableSeeder {
	if table == nil {
		table = domain.DefaultTaxTable()
	}
	return &TableSeeder{
		repo:  repo,
		table: table,
	}
}

// Seed ensures the table for the seeder's tax year exists in the repository.
// An existing table is left untouched; any lookup failure other than
// "not found" is returned as-is.
// Returns true if a table was written.
func (s *TableSeeder) Seed(ctx context.Context) (bool, error) {
	_, err := s.repo.GetByYear(ctx, s.table.TaxYear)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrTaxTableNotFound) {
		return false, fmt.Errorf("failed to check tax table %d: %w", s.table.TaxYear, err)
	}

	// Validate before creating
	if err := s.table.Validate(); err != nil {
		return false, err
	}

	if err := s.repo.Save(ctx, s.table); err != nil {
		return false, err
	}

	return true, nil
}
