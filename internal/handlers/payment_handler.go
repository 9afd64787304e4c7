package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "spentra/internal/errors"
	"spentra/internal/pagination"
	"spentra/internal/services"
)

// PaymentHandler handles payment gateway endpoints.
type PaymentHandler struct {
	paymentService services.PaymentServicer
	auditService   services.AuditServicer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService services.PaymentServicer, auditService services.AuditServicer) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, auditService: auditService}
}

// StripePaymentRequest represents the Stripe payment creation request body.
type StripePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"required,len=3"`
}

// EsewaPaymentRequest represents the eSewa payment initiation request body.
type EsewaPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreateStripePayment godoc
// @Summary Create a Stripe payment
// @Description Create a Stripe payment intent and return its client secret
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StripePaymentRequest true "Amount and currency"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /payments/stripe [post]
func (h *PaymentHandler) CreateStripePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StripePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, clientSecret, err := h.paymentService.CreateStripePayment(userID, req.Amount, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_stripe_payment", "payment", payment.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{
		"payment":       payment,
		"client_secret": clientSecret,
	})
}

// ConfirmStripePayment godoc
// @Summary Confirm a Stripe payment
// @Description Check the payment intent status with Stripe and settle the record
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} models.Payment
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /payments/stripe/{id}/confirm [post]
func (h *PaymentHandler) ConfirmStripePayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payment, err := h.paymentService.ConfirmStripePayment(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// InitiateEsewaPayment godoc
// @Summary Initiate an eSewa payment
// @Description Create a pending payment and return the signed eSewa form fields
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EsewaPaymentRequest true "Amount"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /payments/esewa [post]
func (h *PaymentHandler) InitiateEsewaPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EsewaPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	payment, actionURL, fields, err := h.paymentService.InitiateEsewaPayment(userID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "initiate_esewa_payment", "payment", payment.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{
		"payment":     payment,
		"action_url":  actionURL,
		"form_fields": fields,
	})
}

// VerifyEsewaPayment godoc
// @Summary Verify an eSewa payment
// @Description Check the transaction status with eSewa and settle the record
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param transaction_uuid query string true "eSewa transaction UUID"
// @Success 200 {object} models.Payment
// @Failure 402 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /payments/esewa/verify [get]
func (h *PaymentHandler) VerifyEsewaPayment(c *gin.Context) {
	transactionUUID := c.Query("transaction_uuid")
	if transactionUUID == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction_uuid is required"))
		return
	}

	payment, err := h.paymentService.VerifyEsewaPayment(transactionUUID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// GetPayments godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.PageResponse[models.Payment]
// @Router /payments [get]
func (h *PaymentHandler) GetPayments(c *gin.Context) {
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

	result, err := h.paymentService.GetUserPayments(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
