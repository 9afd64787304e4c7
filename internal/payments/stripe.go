// Package payments wraps the third-party payment gateways (Stripe and
// eSewa) behind small interfaces so the payment service can be tested
// without network access.
package payments

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"spentra/internal/config"
)

// StripeGateway creates and inspects Stripe payment intents.
type StripeGateway interface {
	CreateIntent(amount decimal.Decimal, currency string, metadata map[string]string) (id, clientSecret string, err error)
	IntentStatus(id string) (string, error)
}

type stripeClient struct{}

// NewStripeGateway configures the Stripe SDK with the secret key and
// returns a gateway backed by it.
func NewStripeGateway(cfg *config.Config) StripeGateway {
	stripe.Key = cfg.StripeSecretKey
	return &stripeClient{}
}

// CreateIntent creates a payment intent for the given amount. Stripe wants
// amounts in the currency's minor unit, so the decimal amount is scaled by
// two places before conversion.
func (c *stripeClient) CreateIntent(amount decimal.Decimal, currency string, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Shift(2).IntPart()),
		Currency: stripe.String(currency),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe payment intent creation failed: %w", err)
	}
	return intent.ID, intent.ClientSecret, nil
}

// IntentStatus returns the current status string of a payment intent.
func (c *stripeClient) IntentStatus(id string) (string, error) {
	intent, err := paymentintent.Get(id, nil)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent lookup failed: %w", err)
	}
	return string(intent.Status), nil
}
