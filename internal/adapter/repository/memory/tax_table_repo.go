package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// taxTableRepository is an in-memory implementation of domain.TaxTableRepository
type taxTableRepository struct {
	mu     sync.RWMutex
	tables map[int]*domain.TaxTable
}

// NewTaxTableRepository creates a new in-memory tax table repository, optionally pre-loaded
func NewTaxTableRepository(tables ...*domain.TaxTable) domain.TaxTableRepository {
	r := &taxTableRepository{tables: make(map[int]*domain.TaxTable)}
	for _, t := range tables {
		r.tables[t.TaxYear] = t
	}
	return r
}

// GetByYear retrieves the table for year
func (r *taxTableRepository) GetByYear(_ context.Context, year int) (*domain.TaxTable, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.tables[year]
	if !ok {
		return nil, fmt.Errorf("tax year %d: %w", year, domain.ErrTaxTableNotFound)
	}
	return table, nil
}

// Save creates or replaces the table for table.TaxYear
func (r *taxTableRepository) Save(_ context.Context, table *domain.TaxTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[table.TaxYear] = table
	return nil
}

// ListYears returns the stored years in ascending order
func (r *taxTableRepository) ListYears(_ context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	years := make([]int, 0, len(r.tables))
	for y := range r.tables {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}
