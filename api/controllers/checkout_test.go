package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/justbecho/justbecho-backend/internal/checkout"
	"github.com/justbecho/justbecho-backend/pkg/enums"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
)

type stubCheckoutService struct {
	createResp *checkoutsvc.CreateOrderResponse
	createErr  error
	verifyResp *checkoutsvc.VerifyPaymentResponse
	verifyErr  error
}

func (s *stubCheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, req checkoutsvc.CreateOrderRequest) (*checkoutsvc.CreateOrderResponse, error) {
	return s.createResp, s.createErr
}

func (s *stubCheckoutService) VerifyPayment(ctx context.Context, userID uuid.UUID, req checkoutsvc.VerifyPaymentRequest) (*checkoutsvc.VerifyPaymentResponse, error) {
	return s.verifyResp, s.verifyErr
}

func TestCheckoutCreateOrderSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{createResp: &checkoutsvc.CreateOrderResponse{
		Order:   checkoutsvc.GatewayOrder{ID: "order_abc123", Amount: 562100, Currency: "INR"},
		OrderID: orderID,
		KeyID:   "rzp_test_key",
	}}
	handler := CheckoutCreateOrder(svc, nil)

	body := `{"amount":5621,"cartId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/create-order", body))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutsvc.CreateOrderResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Order.ID != "order_abc123" || envelope.Data.Order.Amount != 562100 {
		t.Fatalf("unexpected gateway order: %+v", envelope.Data.Order)
	}
	if envelope.Data.OrderID != orderID {
		t.Fatalf("unexpected order id: %s", envelope.Data.OrderID)
	}
}

func TestCheckoutCreateOrderPreconditionFailure(t *testing.T) {
	svc := &stubCheckoutService{createErr: pkgerrors.New(pkgerrors.CodePrecondition, "complete your profile before checkout").
		WithDetails(map[string]any{"action": checkoutsvc.ActionCompleteProfile})}
	handler := CheckoutCreateOrder(svc, nil)

	body := `{"amount":5621,"cartId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/create-order", body))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Details["action"] != checkoutsvc.ActionCompleteProfile {
		t.Fatalf("expected redirect action, got %v", envelope.Error.Details)
	}
}

func TestCheckoutCreateOrderAmountMismatch(t *testing.T) {
	svc := &stubCheckoutService{createErr: pkgerrors.New(pkgerrors.CodeConflict, "cart totals changed, refresh and retry").
		WithDetails(map[string]any{"server_amount": 5621})}
	handler := CheckoutCreateOrder(svc, nil)

	body := `{"amount":5000,"cartId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/create-order", body))

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestCheckoutCreateOrderRejectsInvalidBody(t *testing.T) {
	handler := CheckoutCreateOrder(&stubCheckoutService{}, nil)

	// amount missing entirely
	body := `{"cartId":"` + uuid.NewString() + `"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/create-order", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutVerifyPaymentSuccess(t *testing.T) {
	orderID := uuid.New()
	svc := &stubCheckoutService{verifyResp: &checkoutsvc.VerifyPaymentResponse{
		OrderID: orderID,
		Status:  string(enums.OrderStatusPaid),
	}}
	handler := CheckoutVerifyPayment(svc, nil)

	body := `{"razorpay_order_id":"order_abc123","razorpay_payment_id":"pay_xyz","razorpay_signature":"deadbeef"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/verify-payment", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data checkoutsvc.VerifyPaymentResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID || envelope.Data.Status != string(enums.OrderStatusPaid) {
		t.Fatalf("unexpected verify response: %+v", envelope.Data)
	}
}

func TestCheckoutVerifyPaymentFailure(t *testing.T) {
	svc := &stubCheckoutService{verifyErr: pkgerrors.New(pkgerrors.CodePayment, "payment verification failed, contact support")}
	handler := CheckoutVerifyPayment(svc, nil)

	body := `{"razorpay_order_id":"order_abc123","razorpay_payment_id":"pay_xyz","razorpay_signature":"bad"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/razorpay/verify-payment", body))

	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 got %d", resp.Code)
	}
}
