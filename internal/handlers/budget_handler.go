package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spentra/internal/errors"
	"spentra/internal/services"
)

// BudgetHandler handles budget endpoints.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SetBudgetRequest represents the set budget request body.
type SetBudgetRequest struct {
	MonthlyBudget decimal.Decimal `json:"monthly_budget" binding:"required"`
}

// SetBudget godoc
// @Summary Set the monthly budget
// @Description Create or replace the user's monthly budget
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetBudgetRequest true "Budget amount"
// @Success 200 {object} models.Budget
// @Failure 400 {object} ErrorResponse
// @Router /budget [put]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetBudget(userID, req.MonthlyBudget)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "set_budget", "budget", budget.ID, c.ClientIP(), map[string]interface{}{
		"monthly_budget": req.MonthlyBudget.String(),
	})

	c.JSON(http.StatusOK, budget)
}

// GetBudget godoc
// @Summary Get the monthly budget
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Budget
// @Failure 404 {object} ErrorResponse
// @Router /budget [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, budget)
}

// GetBudgetAnalysis godoc
// @Summary Get budget analysis
// @Description Report total expenses, remaining budget, and percentage used
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.BudgetAnalysis
// @Failure 404 {object} ErrorResponse
// @Router /budget/analysis [get]
func (h *BudgetHandler) GetBudgetAnalysis(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.budgetService.GetBudgetAnalysis(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
