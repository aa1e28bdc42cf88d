package enums

// CartStatus tracks the lifecycle of a buyer cart.
type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusConverted CartStatus = "converted"
)

func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusActive, CartStatusConverted:
		return true
	}
	return false
}

// OrderStatus tracks the lifecycle of a buyer order.
type OrderStatus string

const (
	// OrderStatusCreated covers orders handed to the payment gateway but not
	// yet confirmed. A widget dismissal leaves the order here.
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	// OrderStatusVerificationFailed marks orders where the gateway callback
	// arrived but the signature check failed. These are left for manual
	// reconciliation; there is no automatic retry.
	OrderStatusVerificationFailed OrderStatus = "verification_failed"
	OrderStatusCancelled          OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusPaid, OrderStatusVerificationFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentAttemptStatus records the outcome of a single verification attempt.
type PaymentAttemptStatus string

const (
	PaymentAttemptCaptured PaymentAttemptStatus = "captured"
	PaymentAttemptFailed   PaymentAttemptStatus = "failed"
)

// UserRole distinguishes shoppers from back-office users.
type UserRole string

const (
	UserRoleBuyer UserRole = "buyer"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleBuyer, UserRoleAdmin:
		return true
	}
	return false
}
