package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	razorpaysdk "github.com/razorpay/razorpay-go"

	"github.com/justbecho/justbecho-backend/pkg/config"
	"github.com/justbecho/justbecho-backend/pkg/logger"
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
)

// Order is the subset of the gateway order the checkout flow consumes.
// Amount is in minor currency units (paise).
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Client wraps the Razorpay SDK plus the signing secret used for
// payment verification.
type Client struct {
	api       *razorpaysdk.Client
	keySecret string
	currency  string
}

// NewClient initializes the Razorpay client once with the configured keys.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}

	if logg != nil {
		logg.Info(ctx, "razorpay client initialized")
	}

	return &Client{
		api:       razorpaysdk.NewClient(keyID, keySecret),
		keySecret: keySecret,
		currency:  currency,
	}, nil
}

// Currency reports the configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder registers an order with the gateway. amountPaise must already
// be converted to minor units by the caller.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]interface{}) (*Order, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("razorpay client not initialized")
	}
	if amountPaise <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amountPaise)
	}

	payload := map[string]interface{}{
		"amount":   amountPaise,
		"currency": c.currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := c.api.Order.Create(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("create razorpay order: %w", err)
	}

	order := &Order{Currency: c.currency}
	if id, ok := body["id"].(string); ok {
		order.ID = id
	}
	if order.ID == "" {
		return nil, errors.New("razorpay order response missing id")
	}
	if amount, ok := body["amount"].(float64); ok {
		order.Amount = int64(amount)
	} else {
		order.Amount = amountPaise
	}
	if currency, ok := body["currency"].(string); ok && currency != "" {
		order.Currency = currency
	}

	return order, nil
}

// VerifyPaymentSignature checks the widget callback against the key secret.
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	if c == nil {
		return false
	}
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}
