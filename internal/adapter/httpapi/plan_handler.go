package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/savingsplan-backend/internal/domain"
	"github.com/simaogato/savingsplan-backend/internal/usecase/planner"
)

// PlanRequest is the JSON body accepted by POST /plan.
// income may be a JSON number or a decimal string.
type PlanRequest struct {
	Income       *decimal.Decimal `json:"income"`
	FilingStatus string           `json:"filing_status"`
	Age          *int             `json:"age"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type PlanHandler struct {
	service *planner.PlannerService
	logger  *zap.Logger
}

func NewPlanHandler(service *planner.PlannerService, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanHandler{service: service, logger: logger.Named("http")}
}

// BuildPlan handles POST /plan
func (h *PlanHandler) BuildPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.BuildPlan(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownFilingStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrTaxTableNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("failed to build plan",
				zap.String("request_id", RequestIDFromContext(r.Context())),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// TaxYears handles GET /tax-years
func (h *PlanHandler) TaxYears(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	years, err := h.service.TaxYears(r.Context())
	if err != nil {
		h.logger.Error("failed to list tax years", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tax_years":       years,
		"active_tax_year": h.service.TaxYear,
	})
}

func (req PlanRequest) toInput() (domain.PlanInput, error) {
	if req.Income == nil {
		return domain.PlanInput{}, errors.New("income is required")
	}
	if req.Income.IsNegative() {
		return domain.PlanInput{}, errors.New("income must be non-negative")
	}
	if req.Age == nil {
		return domain.PlanInput{}, errors.New("age is required")
	}
	if *req.Age < 0 {
		return domain.PlanInput{}, errors.New("age must be non-negative")
	}
	if *req.Age > domain.MaxAge {
		return domain.PlanInput{}, fmt.Errorf("age must not exceed %d", domain.MaxAge)
	}

	filing, err := domain.ParseFilingStatus(req.FilingStatus)
	if err != nil {
		return domain.PlanInput{}, err
	}

	return domain.PlanInput{
		Income:       *req.Income,
		FilingStatus: filing,
		Age:          *req.Age,
	}, nil
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
