package models

import "github.com/shopspring/decimal"

// PaymentGateway identifies the third-party payment provider
type PaymentGateway string

const (
	PaymentGatewayStripe PaymentGateway = "stripe"
	PaymentGatewayEsewa  PaymentGateway = "esewa"
)

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment records a checkout started against a payment gateway.
// ProviderRef holds the gateway-side identifier: the payment intent ID for
// Stripe, the transaction UUID for eSewa.
type Payment struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Gateway     PaymentGateway  `gorm:"not null" json:"gateway"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Status      PaymentStatus   `gorm:"not null;default:pending" json:"status"`
	ProviderRef string          `gorm:"index" json:"provider_ref"`
}
