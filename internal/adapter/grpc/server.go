package grpc

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/savingsplan-backend/internal/domain"
	"github.com/simaogato/savingsplan-backend/internal/usecase/planner"
)

// Server implements the PlannerService gRPC server
type Server struct {
	PlannerService *planner.PlannerService
}

// NewServer creates a new gRPC server instance
func NewServer(plannerService *planner.PlannerService) *Server {
	return &Server{
		PlannerService: plannerService,
	}
}

// BuildPlan handles the BuildPlan RPC.
// Request fields: income (string or number), filing_status (string), age (number).
func (s *Server) BuildPlan(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := planInputFromStruct(req)
	if err != nil {
		return nil, err
	}

	plan, err := s.PlannerService.BuildPlan(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := structpb.NewStruct(planToMap(plan))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode plan: %v", err)
	}
	return resp, nil
}

// ListTaxYears handles the ListTaxYears RPC
func (s *Server) ListTaxYears(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	years, err := s.PlannerService.TaxYears(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	list := make([]interface{}, 0, len(years))
	for _, y := range years {
		list = append(list, y)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"tax_years":       list,
		"active_tax_year": s.PlannerService.TaxYear,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode tax years: %v", err)
	}
	return resp, nil
}

// planInputFromStruct parses and range-checks the request.
// The engine assumes validated input, so this adapter is where negatives are rejected.
func planInputFromStruct(req *structpb.Struct) (domain.PlanInput, error) {
	fields := req.GetFields()

	// Parse income from string or number
	var income decimal.Decimal
	switch v := fields["income"].GetKind().(type) {
	case *structpb.Value_StringValue:
		parsed, err := decimal.NewFromString(v.StringValue)
		if err != nil {
			return domain.PlanInput{}, status.Errorf(codes.InvalidArgument, "invalid income format: %v", err)
		}
		income = parsed
	case *structpb.Value_NumberValue:
		if math.IsNaN(v.NumberValue) || math.IsInf(v.NumberValue, 0) {
			return domain.PlanInput{}, status.Error(codes.InvalidArgument, "income must be a finite number")
		}
		income = decimal.NewFromFloat(v.NumberValue)
	default:
		return domain.PlanInput{}, status.Error(codes.InvalidArgument, "income is required")
	}
	if income.IsNegative() {
		return domain.PlanInput{}, status.Error(codes.InvalidArgument, "income must be non-negative")
	}

	// Parse filing status
	filing, err := domain.ParseFilingStatus(fields["filing_status"].GetStringValue())
	if err != nil {
		return domain.PlanInput{}, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	// Parse age (whole years)
	ageValue, ok := fields["age"].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return domain.PlanInput{}, status.Error(codes.InvalidArgument, "age is required")
	}
	age := ageValue.NumberValue
	if math.IsNaN(age) || age < 0 || age != math.Trunc(age) {
		return domain.PlanInput{}, status.Error(codes.InvalidArgument, "age must be a non-negative whole number")
	}
	if age > domain.MaxAge {
		return domain.PlanInput{}, status.Errorf(codes.InvalidArgument, "age must not exceed %d", domain.MaxAge)
	}

	return domain.PlanInput{
		Income:       income,
		FilingStatus: filing,
		Age:          int(age),
	}, nil
}

// planToMap converts a domain Plan to a structpb-compatible map. Money is rendered as strings.
func planToMap(p *domain.Plan) map[string]interface{} {
	return map[string]interface{}{
		"tax_year": p.TaxYear,
		"input": map[string]interface{}{
			"income":        p.Input.Income.String(),
			"filing_status": string(p.Input.FilingStatus),
			"age":           p.Input.Age,
		},
		"marginal_rate":             int(p.MarginalRate),
		"roth_eligibility":          string(p.RothEligibility),
		"traditional_deductibility": string(p.TraditionalDeductibility),
		"roth_phaseout":             phaseoutToMap(p.RothPhaseout),
		"traditional_phaseout":      phaseoutToMap(p.TraditionalPhaseout),
		"limits": map[string]interface{}{
			"hsa":               p.Limits.HSA.String(),
			"employer_plan":     p.Limits.EmployerPlan.String(),
			"ira":               p.Limits.IRA.String(),
			"hsa_catch_up":      p.Limits.HSACatchUp,
			"employer_catch_up": string(p.Limits.EmployerCatchUp),
			"ira_catch_up":      p.Limits.IRACatchUp,
		},
		"recommendations": []interface{}{
			recommendationToMap(p.HSARecommendation),
			recommendationToMap(p.EmployerPlanRecommendation),
			recommendationToMap(p.IRARecommendation),
		},
		"years_to_horizon": p.YearsToHorizon,
		"expected_return":  p.ExpectedReturn.String(),
		"projections": map[string]interface{}{
			"hsa":           p.Projections.HSA.String(),
			"employer_plan": p.Projections.EmployerPlan.String(),
			"ira":           p.Projections.IRA.String(),
		},
		"total_projection": p.TotalProjection.String(),
	}
}

func phaseoutToMap(r domain.PhaseoutRange) map[string]interface{} {
	return map[string]interface{}{
		"start": r.Start.String(),
		"end":   r.End.String(),
	}
}

func recommendationToMap(r domain.Recommendation) map[string]interface{} {
	return map[string]interface{}{
		"account_type": string(r.AccountType),
		"label":        string(r.Label),
		"rationale":    r.Rationale,
		"priority":     r.Priority,
		"rule":         r.Rule,
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrUnknownFilingStatus):
		return status.Errorf(codes.InvalidArgument, "%s", err)
	case errors.Is(err, domain.ErrTaxTableNotFound):
		return status.Errorf(codes.NotFound, "%s", err)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err)
}
