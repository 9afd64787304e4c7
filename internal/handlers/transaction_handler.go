package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spentra/internal/errors"
	"spentra/internal/logger"
	"spentra/internal/models"
	"spentra/internal/pagination"
	"spentra/internal/services"
)

// TransactionHandler handles transaction endpoints. Creating an expense also
// triggers the budget alert evaluation.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	alertService       services.AlertServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, alertService services.AlertServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		alertService:       alertService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the create transaction request body.
type CreateTransactionRequest struct {
	CategoryID  *string         `json:"category_id"`
	Type        string          `json:"type" binding:"required,transaction_type"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// UpdateTransactionRequest represents the update transaction request body.
// All fields are optional; absent fields are left unchanged.
type UpdateTransactionRequest struct {
	CategoryID  *string          `json:"category_id"`
	Type        *string          `json:"type" binding:"omitempty,transaction_type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

// CreateTransaction godoc
// @Summary Create a transaction
// @Description Record an income or expense. Recording an expense evaluates the user's budget alerts.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(userID, req.CategoryID, models.TransactionType(req.Type), req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_transaction", "transaction", transaction.ID, c.ClientIP(), nil)

	// Alert evaluation must not fail the request; the transaction is
	// already committed.
	if transaction.Type == models.TransactionTypeExpense {
		if _, err := h.alertService.EvaluateBudgetAlerts(userID, transaction.Amount); err != nil {
			logger.Get().Errorw("budget alert evaluation failed",
				"error", err.Error(),
				"user_id", userID,
				"transaction_id", transaction.ID,
			)
		}
	}

	c.JSON(http.StatusCreated, transaction)
}

// GetTransactions godoc
// @Summary List transactions
// @Description List the user's transactions, newest first, with optional filters
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param from_date query string false "Earliest date (YYYY-MM-DD)"
// @Param to_date query string false "Latest date (YYYY-MM-DD)"
// @Param type query string false "Transaction type (income or expense)"
// @Param category_id query string false "Category ID"
// @Param min_amount query number false "Minimum amount"
// @Param max_amount query number false "Maximum amount"
// @Success 200 {object} pagination.PageResponse[models.Transaction]
// @Failure 400 {object} ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Update a transaction. The original creation date is preserved.
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var transactionType *models.TransactionType
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		transactionType = &t
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, c.Param("id"), req.CategoryID, transactionType, req.Amount, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update_transaction", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")
	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete_transaction", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// parseTransactionFilter builds a TransactionFilter from query parameters.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if raw := c.Query("from_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must be in YYYY-MM-DD format")
		}
		filter.FromDate = &t
	}
	if raw := c.Query("to_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date must be in YYYY-MM-DD format")
		}
		// Include the whole day.
		end := t.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &end
	}
	if raw := c.Query("type"); raw != "" {
		t := models.TransactionType(raw)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be income or expense")
		}
		filter.Type = &t
	}
	if raw := c.Query("category_id"); raw != "" {
		filter.CategoryID = &raw
	}
	if raw := c.Query("min_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "min_amount must be a number")
		}
		filter.MinAmount = &amount
	}
	if raw := c.Query("max_amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "max_amount must be a number")
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}
