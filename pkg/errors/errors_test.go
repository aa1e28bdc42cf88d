package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsThroughChain(t *testing.T) {
	t.Parallel()

	base := New(CodeNotFound, "order not found")
	wrapped := fmt.Errorf("loading order: %w", base)

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("code = %s, want %s", typed.Code(), CodeNotFound)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "razorpay create order")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause must be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("code = %s", err.Code())
	}
}

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodePrecondition, http.StatusUnprocessableEntity},
		{CodePayment, http.StatusPaymentRequired},
		{CodeConflict, http.StatusConflict},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		if got := MetadataFor(c.code).HTTPStatus; got != c.status {
			t.Fatalf("MetadataFor(%s).HTTPStatus = %d, want %d", c.code, got, c.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code must map to 500, got %d", meta.HTTPStatus)
	}
}

func TestWithDetails(t *testing.T) {
	t.Parallel()

	err := New(CodePrecondition, "add a shipping address").WithDetails(map[string]any{"action": "add_address"})
	details, ok := err.Details().(map[string]any)
	if !ok || details["action"] != "add_address" {
		t.Fatalf("unexpected details: %v", err.Details())
	}
}
