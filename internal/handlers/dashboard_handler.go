package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spentra/internal/services"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	summaryService services.SummaryServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(summaryService services.SummaryServicer) *DashboardHandler {
	return &DashboardHandler{summaryService: summaryService}
}

// GetSummary godoc
// @Summary Get financial summary
// @Description Get the user's total income, total expenses, and balance
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.FinancialSummary
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.summaryService.GetFinancialSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
