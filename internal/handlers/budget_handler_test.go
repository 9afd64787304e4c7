package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spentra/internal/errors"
	"spentra/internal/models"
	"spentra/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	setBudgetFn         func(userID string, monthlyBudget decimal.Decimal) (*models.Budget, error)
	getBudgetFn         func(userID string) (*models.Budget, error)
	getBudgetAnalysisFn func(userID string) (*services.BudgetAnalysis, error)
}

func (m *mockBudgetService) SetBudget(userID string, monthlyBudget decimal.Decimal) (*models.Budget, error) {
	if m.setBudgetFn != nil {
		return m.setBudgetFn(userID, monthlyBudget)
	}
	return &models.Budget{UserID: userID, MonthlyBudget: monthlyBudget}, nil
}

func (m *mockBudgetService) GetBudget(userID string) (*models.Budget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(userID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetAnalysis(userID string) (*services.BudgetAnalysis, error) {
	if m.getBudgetAnalysisFn != nil {
		return m.getBudgetAnalysisFn(userID)
	}
	return &services.BudgetAnalysis{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID("user-1"))
	auth.PUT("/budget", handler.SetBudget)
	auth.GET("/budget", handler.GetBudget)
	auth.GET("/budget/analysis", handler.GetBudgetAnalysis)
	return r
}

// --- tests ---

func TestBudgetHandler_SetBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			setBudgetFn: func(userID string, monthlyBudget decimal.Decimal) (*models.Budget, error) {
				if !monthlyBudget.Equal(decimal.RequireFromString("1500.00")) {
					t.Errorf("expected 1500.00, got %s", monthlyBudget)
				}
				return &models.Budget{UserID: userID, MonthlyBudget: monthlyBudget}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budget", `{"monthly_budget":"1500.00"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["monthly_budget"] != "1500" {
			t.Errorf("expected monthly_budget 1500, got %v", result["monthly_budget"])
		}
	})

	t.Run("returns 400 on a non-positive amount", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			setBudgetFn: func(_ string, _ decimal.Decimal) (*models.Budget, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly budget must be greater than zero")
			},
		}
		handler := NewBudgetHandler(budgetSvc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budget", `{"monthly_budget":"-100"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on a missing body", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budget", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns the budget", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetFn: func(userID string) (*models.Budget, error) {
				return &models.Budget{UserID: userID, MonthlyBudget: decimal.RequireFromString("2000.00")}, nil
			},
		}
		handler := NewBudgetHandler(budgetSvc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 404 without a budget", func(t *testing.T) {
		budgetSvc := &mockBudgetService{
			getBudgetFn: func(_ string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(budgetSvc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})
}

func TestBudgetHandler_GetBudgetAnalysis(t *testing.T) {
	budgetSvc := &mockBudgetService{
		getBudgetAnalysisFn: func(_ string) (*services.BudgetAnalysis, error) {
			return &services.BudgetAnalysis{
				MonthlyBudget: decimal.RequireFromString("1000.00"),
				TotalExpenses: decimal.RequireFromString("400.00"),
				Remaining:     decimal.RequireFromString("600.00"),
				PercentUsed:   decimal.RequireFromString("40"),
			}, nil
		},
	}
	handler := NewBudgetHandler(budgetSvc, &mockAuditService{})
	r := setupBudgetRouter(handler)

	rec := doRequest(r, "GET", "/budget/analysis", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["percent_used"] != "40" {
		t.Errorf("expected percent_used 40, got %v", result["percent_used"])
	}
}
