package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts checkout attempts and payment verifications.
type CheckoutMetrics struct {
	ordersCreated *prometheus.CounterVec
	verifications *prometheus.CounterVec
	gatewayErrors prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_orders_created_total",
		Help: "Orders registered with the payment gateway.",
	}, []string{"outcome"})
	verifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_payment_verifications_total",
		Help: "Payment verification callbacks by outcome.",
	}, []string{"outcome"})
	gatewayErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_gateway_errors_total",
		Help: "Errors returned by the payment gateway API.",
	})
	reg.MustRegister(ordersCreated, verifications, gatewayErrors)
	return &CheckoutMetrics{
		ordersCreated: ordersCreated,
		verifications: verifications,
		gatewayErrors: gatewayErrors,
	}
}

// IncOrderCreated records an order-creation outcome ("ok" or "rejected").
func (m *CheckoutMetrics) IncOrderCreated(outcome string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncVerification records a verification outcome ("captured" or "failed").
func (m *CheckoutMetrics) IncVerification(outcome string) {
	if m == nil || m.verifications == nil {
		return
	}
	m.verifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncGatewayError counts a payment gateway API failure.
func (m *CheckoutMetrics) IncGatewayError() {
	if m == nil || m.gatewayErrors == nil {
		return
	}
	m.gatewayErrors.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
