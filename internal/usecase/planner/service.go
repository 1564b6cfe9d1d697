package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/simaogato/savingsplan-backend/internal/domain"
)

// PlannerService builds action plans against the configured tax year's reference table
type PlannerService struct {
	TableRepo domain.TaxTableRepository
	Cache     domain.PlanCache
	TaxYear   int

	logger *zap.Logger
}

// NewPlannerService creates a new PlannerService instance.
// cache and logger may be nil.
func NewPlannerService(tableRepo domain.TaxTableRepository, cache domain.PlanCache, taxYear int, logger *zap.Logger) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		TableRepo: tableRepo,
		Cache:     cache,
		TaxYear:   taxYear,
		logger:    logger.Named("planner"),
	}
}

// BuildPlan evaluates the inputs against the service's tax year.
// Logic:
//  1. Reject filing statuses outside the supported set
//  2. Serve from the cache when possible
//  3. Load the tax table and evaluate
//  4. Store the result in the cache (failures are logged, never returned)
func (s *PlannerService) BuildPlan(ctx context.Context, in domain.PlanInput) (*domain.Plan, error) {
	if !in.FilingStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownFilingStatus, in.FilingStatus)
	}

	key := CacheKey(s.TaxYear, in)
	if s.Cache != nil {
		if plan, ok := s.Cache.Get(ctx, key); ok {
			s.logger.Debug("plan served from cache", zap.String("key", key))
			return plan, nil
		}
	}

	table, err := s.TableRepo.GetByYear(ctx, s.TaxYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax table %d: %w", s.TaxYear, err)
	}

	plan := Evaluate(table, in)
	s.logger.Debug("plan evaluated",
		zap.Int("tax_year", plan.TaxYear),
		zap.String("filing_status", string(in.FilingStatus)),
		zap.Int("marginal_rate", int(plan.MarginalRate)),
		zap.String("ira_label", string(plan.IRARecommendation.Label)),
	)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, plan); err != nil {
			s.logger.Warn("failed to cache plan", zap.String("key", key), zap.Error(err))
		}
	}

	return plan, nil
}

// TaxYears lists the tax years that have a stored reference table
func (s *PlannerService) TaxYears(ctx context.Context) ([]int, error) {
	years, err := s.TableRepo.ListYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax years: %w", err)
	}
	return years, nil
}

// CacheKey identifies a plan by table year and inputs
func CacheKey(taxYear int, in domain.PlanInput) string {
	return fmt.Sprintf("plan:%d:%s:%s:%d", taxYear, in.FilingStatus.Short(), in.Income.String(), in.Age)
}
