package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "spentra/internal/errors"
	"spentra/internal/models"
	"spentra/internal/pagination"
	"spentra/internal/payments"
	"spentra/internal/uuid"
)

// paymentService coordinates payment records with the gateway clients.
type paymentService struct {
	db     *gorm.DB
	stripe payments.StripeGateway
	esewa  payments.EsewaGateway
}

// NewPaymentService creates a new PaymentServicer.
func NewPaymentService(db *gorm.DB, stripe payments.StripeGateway, esewa payments.EsewaGateway) PaymentServicer {
	return &paymentService{db: db, stripe: stripe, esewa: esewa}
}

// CreateStripePayment creates a Stripe payment intent and a pending
// payment record. It returns the record and the client secret the frontend
// needs to complete the checkout.
func (s *paymentService) CreateStripePayment(userID string, amount decimal.Decimal, currency string) (*models.Payment, string, error) {
	if !amount.IsPositive() {
		return nil, "", apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	intentID, clientSecret, err := s.stripe.CreateIntent(amount, currency, map[string]string{"user_id": userID})
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrPaymentGatewayError, err)
	}

	payment := &models.Payment{
		UserID:      userID,
		Gateway:     models.PaymentGatewayStripe,
		Amount:      amount,
		Currency:    currency,
		Status:      models.PaymentStatusPending,
		ProviderRef: intentID,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return payment, clientSecret, nil
}

// ConfirmStripePayment checks the intent status with Stripe and settles the
// payment record accordingly.
func (s *paymentService) ConfirmStripePayment(userID, paymentID string) (*models.Payment, error) {
	payment, err := s.getUserPayment(userID, paymentID)
	if err != nil {
		return nil, err
	}

	status, err := s.stripe.IntentStatus(payment.ProviderRef)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPaymentGatewayError, err)
	}

	newStatus := payment.Status
	switch status {
	case "succeeded":
		newStatus = models.PaymentStatusSucceeded
	case "canceled":
		newStatus = models.PaymentStatusFailed
	}

	if newStatus != payment.Status {
		if err := s.db.Model(payment).Update("status", newStatus).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		payment.Status = newStatus
	}

	return payment, nil
}

// InitiateEsewaPayment creates a pending payment record and returns the
// signed form fields for the eSewa redirect.
func (s *paymentService) InitiateEsewaPayment(userID string, amount decimal.Decimal) (*models.Payment, string, map[string]string, error) {
	if !amount.IsPositive() {
		return nil, "", nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	transactionUUID := uuid.New()
	actionURL, fields, err := s.esewa.BuildForm(amount, transactionUUID)
	if err != nil {
		return nil, "", nil, apperrors.Wrap(apperrors.ErrPaymentGatewayError, err)
	}

	payment := &models.Payment{
		UserID:      userID,
		Gateway:     models.PaymentGatewayEsewa,
		Amount:      amount,
		Currency:    "NPR",
		Status:      models.PaymentStatusPending,
		ProviderRef: transactionUUID,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, "", nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return payment, actionURL, fields, nil
}

// VerifyEsewaPayment looks up the pending payment by its transaction UUID,
// asks eSewa whether it completed, and settles the record.
func (s *paymentService) VerifyEsewaPayment(transactionUUID string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.Where("provider_ref = ? AND gateway = ?", transactionUUID, models.PaymentGatewayEsewa).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	complete, err := s.esewa.VerifyTransaction(transactionUUID, payment.Amount)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPaymentGatewayError, err)
	}

	newStatus := models.PaymentStatusFailed
	if complete {
		newStatus = models.PaymentStatusSucceeded
	}
	if err := s.db.Model(&payment).Update("status", newStatus).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	payment.Status = newStatus

	if !complete {
		return &payment, apperrors.ErrPaymentNotVerified
	}
	return &payment, nil
}

// GetUserPayments returns a paginated list of the user's payments, newest
// first.
func (s *paymentService) GetUserPayments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error) {
	page.Defaults()

	base := s.db.Model(&models.Payment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var userPayments []models.Payment
	if err := base.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&userPayments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(userPayments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *paymentService) getUserPayment(userID, paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("id = ? AND user_id = ?", paymentID, userID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &payment, nil
}
