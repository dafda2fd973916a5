// Package gateway talks to the Razorpay-style payment provider. Only the
// three calls the payment workflow needs are implemented: opening an intent,
// refunding a captured payment and verifying callback signatures.
package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Client is the provider surface the payment service depends on. Tests
// substitute a fake.
type Client interface {
	CreateIntent(amount decimal.Decimal, currency, receipt string) (string, error)
	Refund(paymentID string, amount decimal.Decimal, reason string) (string, error)
}

type RazorpayClient struct {
	http      *resty.Client
	keyID     string
	keySecret string
}

func NewRazorpayClient(baseURL, keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		http:      resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// CreateIntent opens a provider-side order for the given amount and returns
// its id. Amounts go over the wire in minor units (paise).
func (c *RazorpayClient) CreateIntent(amount decimal.Decimal, currency, receipt string) (string, error) {
	requestBody := map[string]any{
		"amount":          amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	resp, err := c.http.R().
		SetBasicAuth(c.keyID, c.keySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(requestBody).
		Post("/v1/orders")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("provider order request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var response map[string]any
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse provider order response: %w", err)
	}

	orderID, ok := response["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("order id not found in provider response")
	}
	return orderID, nil
}

// Refund issues a refund against a captured payment and returns the refund id.
func (c *RazorpayClient) Refund(paymentID string, amount decimal.Decimal, reason string) (string, error) {
	requestBody := map[string]any{
		"amount": amount.Mul(decimal.NewFromInt(100)).IntPart(),
		"speed":  "normal",
		"notes":  map[string]string{"reason": reason},
	}

	resp, err := c.http.R().
		SetBasicAuth(c.keyID, c.keySecret).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(requestBody).
		Post("/v1/payments/" + paymentID + "/refund")
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("provider refund request failed with status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var response map[string]any
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return "", fmt.Errorf("failed to parse provider refund response: %w", err)
	}

	refundID, ok := response["id"].(string)
	if !ok || refundID == "" {
		return "", fmt.Errorf("refund id not found in provider response")
	}
	return refundID, nil
}
