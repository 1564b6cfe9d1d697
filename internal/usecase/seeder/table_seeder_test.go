package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// MockTaxTableRepository is a mock implementation of TaxTableRepository
type MockTaxTableRepository struct {
	mock.Mock
}

func (m *MockTaxTableRepository) GetByYear(ctx context.Context, year int) (*domain.TaxTable, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxTable), args.Error(1)
}

func (m *MockTaxTableRepository) Save(ctx context.Context, table *domain.TaxTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockTaxTableRepository) ListYears(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func TestTableSeeder_Seed_TableMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTaxTableRepository)
	seeder := NewTableSeeder(mockRepo, nil)

	mockRepo.On("GetByYear", ctx, domain.DefaultTaxYear).Return(nil, domain.ErrTaxTableNotFound)
	mockRepo.On("Save", ctx, mock.MatchedBy(func(table *domain.TaxTable) bool {
		return table.TaxYear == domain.DefaultTaxYear && table.Validate() == nil
	})).Return(nil)

	seeded, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.True(t, seeded)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestTableSeeder_Seed_TableExists(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTaxTableRepository)
	seeder := NewTableSeeder(mockRepo, nil)

	mockRepo.On("GetByYear", ctx, domain.DefaultTaxYear).Return(domain.DefaultTaxTable(), nil)

	seeded, err := seeder.Seed(ctx)

	assert.NoError(t, err)
	assert.False(t, seeded)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTableSeeder_Seed_LookupError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTaxTableRepository)
	seeder := NewTableSeeder(mockRepo, nil)

	mockRepo.On("GetByYear", ctx, domain.DefaultTaxYear).Return(nil, errors.New("connection reset"))

	seeded, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, seeded)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTableSeeder_Seed_InvalidTable(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTaxTableRepository)

	table := domain.DefaultTaxTable()
	table.TaxYear = 2027
	table.RetirementAge = 0
	seeder := NewTableSeeder(mockRepo, table)

	mockRepo.On("GetByYear", ctx, 2027).Return(nil, domain.ErrTaxTableNotFound)

	seeded, err := seeder.Seed(ctx)

	assert.ErrorIs(t, err, domain.ErrMalformedTaxTable)
	assert.False(t, seeded)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTableSeeder_Seed_SaveError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTaxTableRepository)
	seeder := NewTableSeeder(mockRepo, nil)

	mockRepo.On("GetByYear", ctx, domain.DefaultTaxYear).Return(nil, domain.ErrTaxTableNotFound)
	mockRepo.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))

	seeded, err := seeder.Seed(ctx)

	assert.Error(t, err)
	assert.False(t, seeded)
}
