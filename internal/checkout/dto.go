package checkout

import (
	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/pkg/types"
)

// CreateOrderRequest is the payload for POST /api/razorpay/create-order.
// Amount is the client's displayed grand total in rupees; it is checked
// against the server's own computation and never charged as-is.
type CreateOrderRequest struct {
	Amount          int            `json:"amount" validate:"required,gt=0"`
	CartID          uuid.UUID      `json:"cartId" validate:"required"`
	ShippingAddress *types.Address `json:"shippingAddress"`
}

// GatewayOrder is the slice of the gateway order the widget needs.
// Amount is in paise.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrderResponse returns the gateway order plus the server-side
// pricing snapshot backing it.
type CreateOrderResponse struct {
	Order   GatewayOrder `json:"order"`
	OrderID uuid.UUID    `json:"order_id"`
	KeyID   string       `json:"key_id"`
}

// VerifyPaymentRequest is the widget callback payload, forwarded verbatim.
// Field names follow the gateway's callback contract.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// VerifyPaymentResponse reports the verification outcome.
type VerifyPaymentResponse struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}
