package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"spentra/internal/config"
)

// EsewaGateway initiates and verifies eSewa ePay transactions.
type EsewaGateway interface {
	BuildForm(amount decimal.Decimal, transactionUUID string) (actionURL string, fields map[string]string, err error)
	VerifyTransaction(transactionUUID string, amount decimal.Decimal) (bool, error)
}

type esewaClient struct {
	merchantCode string
	secretKey    string
	paymentURL   string
	statusURL    string
	successURL   string
	failureURL   string
	httpClient   *http.Client
}

// NewEsewaGateway returns a gateway talking to the configured eSewa
// endpoints. eSewa has no Go SDK; the ePay v2 protocol is an HTML form
// post with an HMAC-SHA256 signature plus a JSON status-check endpoint.
func NewEsewaGateway(cfg *config.Config) EsewaGateway {
	return &esewaClient{
		merchantCode: cfg.EsewaMerchantCode,
		secretKey:    cfg.EsewaSecretKey,
		paymentURL:   cfg.EsewaPaymentURL,
		statusURL:    cfg.EsewaStatusURL,
		successURL:   cfg.EsewaSuccessURL,
		failureURL:   cfg.EsewaFailureURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// BuildForm returns the eSewa form action URL and the signed field set the
// frontend must submit to redirect the user to the gateway.
func (c *esewaClient) BuildForm(amount decimal.Decimal, transactionUUID string) (string, map[string]string, error) {
	total := amount.StringFixed(2)

	signedFields := "total_amount,transaction_uuid,product_code"
	payload := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		total, transactionUUID, c.merchantCode)

	fields := map[string]string{
		"amount":                  total,
		"tax_amount":              "0",
		"total_amount":            total,
		"transaction_uuid":        transactionUUID,
		"product_code":            c.merchantCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             c.successURL,
		"failure_url":             c.failureURL,
		"signed_field_names":      signedFields,
		"signature":               c.sign(payload),
	}
	return c.paymentURL, fields, nil
}

// statusResponse is the shape of the eSewa transaction status endpoint.
type statusResponse struct {
	ProductCode     string `json:"product_code"`
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
	RefID           string `json:"ref_id"`
}

// VerifyTransaction asks eSewa for the transaction status and reports
// whether the payment completed.
func (c *esewaClient) VerifyTransaction(transactionUUID string, amount decimal.Decimal) (bool, error) {
	query := url.Values{}
	query.Set("product_code", c.merchantCode)
	query.Set("total_amount", amount.StringFixed(2))
	query.Set("transaction_uuid", transactionUUID)

	resp, err := c.httpClient.Get(c.statusURL + "?" + query.Encode())
	if err != nil {
		return false, fmt.Errorf("esewa status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("esewa status request returned %d", resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("failed to decode esewa status response: %w", err)
	}

	return status.Status == "COMPLETE", nil
}

func (c *esewaClient) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
