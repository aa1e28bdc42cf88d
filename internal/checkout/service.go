package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/internal/cart"
	"github.com/justbecho/justbecho-backend/internal/orders"
	"github.com/justbecho/justbecho-backend/internal/pricing"
	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
	"github.com/justbecho/justbecho-backend/pkg/events"
	"github.com/justbecho/justbecho-backend/pkg/logger"
	"github.com/justbecho/justbecho-backend/pkg/metrics"
	"github.com/justbecho/justbecho-backend/pkg/outbox"
	"github.com/justbecho/justbecho-backend/pkg/razorpay"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type paymentGateway interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]interface{}) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
	Currency() string
}

type cartLocker interface {
	Acquire(ctx context.Context, cartID uuid.UUID) (bool, error)
	Release(ctx context.Context, cartID uuid.UUID) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service drives a checkout attempt from precondition gating through
// gateway order registration and payment verification.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error)
}

type service struct {
	tx         txRunner
	users      userLoader
	cartRepo   cart.CartRepository
	ordersRepo orders.Repository
	gateway    paymentGateway
	locker     cartLocker
	outbox     outboxEmitter
	publisher  events.Publisher
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
	keyID      string
}

// ServiceParams bundles the checkout service dependencies.
type ServiceParams struct {
	TxRunner   txRunner
	UserRepo   userLoader
	CartRepo   cart.CartRepository
	OrdersRepo orders.Repository
	Gateway    paymentGateway
	Locker     cartLocker
	Outbox     outboxEmitter
	Publisher  events.Publisher
	Metrics    *metrics.CheckoutMetrics
	Logger     *logger.Logger
	KeyID      string
}

// NewService builds the checkout orchestrator.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.OrdersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	publisher := params.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		tx:         params.TxRunner,
		users:      params.UserRepo,
		cartRepo:   params.CartRepo,
		ordersRepo: params.OrdersRepo,
		gateway:    params.Gateway,
		locker:     params.Locker,
		outbox:     params.Outbox,
		publisher:  publisher,
		metrics:    params.Metrics,
		logg:       params.Logger,
		keyID:      params.KeyID,
	}, nil
}

// orderCreatedPayload is the outbox data for order.created.
type orderCreatedPayload struct {
	OrderID         uuid.UUID `json:"order_id"`
	UserID          uuid.UUID `json:"user_id"`
	RazorpayOrderID string    `json:"razorpay_order_id"`
	GrandTotal      int       `json:"grand_total"`
	Currency        string    `json:"currency"`
}

// orderPaidPayload is the outbox data for order.paid.
type orderPaidPayload struct {
	OrderID           uuid.UUID `json:"order_id"`
	UserID            uuid.UUID `json:"user_id"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	GrandTotal        int       `json:"grand_total"`
	PaidAt            time.Time `json:"paid_at"`
}

// CreateOrder gates the checkout, re-derives the charge amount server-side,
// registers the order with the gateway, and persists it. The client-supplied
// amount is only checked for display consistency; a mismatch means the cart
// changed under the client and the attempt is rejected.
func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.CartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	if err := CheckPreconditions(user); err != nil {
		s.metrics.IncOrderCreated("rejected")
		return nil, err
	}

	activeCart, err := s.cartRepo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(activeCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if activeCart.ID != req.CartID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart has changed, refresh and retry")
	}

	acquired, err := s.locker.Acquire(ctx, activeCart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire checkout lock")
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress for this cart")
	}
	// hold the lock through the widget handoff on success; release it on
	// every failure path so the user can retry immediately
	succeeded := false
	defer func() {
		if !succeeded {
			if relErr := s.locker.Release(ctx, activeCart.ID); relErr != nil && s.logg != nil {
				s.logg.Warn(ctx, "release checkout lock failed")
			}
		}
	}()

	totals := pricing.Compute(activeCart)
	if req.Amount != totals.GrandTotal {
		s.metrics.IncOrderCreated("rejected")
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart totals changed, refresh and retry").
			WithDetails(map[string]any{"server_amount": totals.GrandTotal})
	}

	shippingAddress := req.ShippingAddress
	if !shippingAddress.Complete() {
		shippingAddress = user.Address
	}

	orderID := uuid.New()
	amountPaise := int64(totals.GrandTotal) * 100
	gatewayOrder, err := s.gateway.CreateOrder(ctx, amountPaise, orderID.String(), map[string]interface{}{
		"user_id": userID.String(),
		"cart_id": activeCart.ID.String(),
	})
	if err != nil {
		s.metrics.IncGatewayError()
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "register order with gateway")
	}

	order := &models.Order{
		ID:                    orderID,
		UserID:                userID,
		CartID:                activeCart.ID,
		RazorpayOrderID:       gatewayOrder.ID,
		Status:                enums.OrderStatusCreated,
		Currency:              gatewayOrder.Currency,
		ShippingAddress:       copyAddress(shippingAddress),
		Subtotal:              totals.Subtotal,
		BechoProtectTotal:     totals.BechoProtectTotal,
		PlatformFeePercentage: totals.PlatformFeePercentage,
		PlatformFee:           totals.PlatformFee,
		Tax:                   totals.Tax,
		Shipping:              totals.Shipping,
		GrandTotal:            totals.GrandTotal,
		Items:                 orderItemsFromCart(activeCart),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.ordersRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     outbox.EventOrderCreated,
			AggregateType: outbox.AggregateOrder,
			AggregateID:   order.ID,
			Data: orderCreatedPayload{
				OrderID:         order.ID,
				UserID:          userID,
				RazorpayOrderID: order.RazorpayOrderID,
				GrandTotal:      order.GrandTotal,
				Currency:        order.Currency,
			},
		})
	})
	if err != nil {
		s.metrics.IncOrderCreated("rejected")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	succeeded = true
	s.metrics.IncOrderCreated("ok")
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "checkout order created")
	}

	return &CreateOrderResponse{
		Order: GatewayOrder{
			ID:       gatewayOrder.ID,
			Amount:   gatewayOrder.Amount,
			Currency: gatewayOrder.Currency,
		},
		OrderID: order.ID,
		KeyID:   s.keyID,
	}, nil
}

// VerifyPayment checks the widget callback signature. A valid signature
// marks the order paid and converts the cart; an invalid one records the
// attempt and parks the order for manual reconciliation. There is no
// automatic retry against the gateway.
func (s *service) VerifyPayment(ctx context.Context, userID uuid.UUID, req VerifyPaymentRequest) (*VerifyPaymentResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if req.RazorpayOrderID == "" || req.RazorpayPaymentID == "" || req.RazorpaySignature == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id, payment id, and signature are required")
	}

	order, err := s.ordersRepo.FindByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	// a duplicate callback for an already-verified payment is a success
	if order.Status == enums.OrderStatusPaid {
		return &VerifyPaymentResponse{OrderID: order.ID, Status: string(order.Status)}, nil
	}
	if order.Status != enums.OrderStatusCreated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("order is %s", order.Status))
	}

	defer func() {
		if relErr := s.locker.Release(ctx, order.CartID); relErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "release checkout lock failed")
		}
	}()

	if !s.gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		if err := s.recordFailedAttempt(ctx, order, req); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record failed attempt")
		}
		s.metrics.IncVerification("failed")
		if s.logg != nil {
			s.logg.Warn(s.logg.WithOrderID(ctx, order.ID.String()), "payment signature verification failed")
		}
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment verification failed, contact support").
			WithDetails(map[string]any{"order_id": order.ID})
	}

	paidAt := time.Now().UTC()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		if err := ordersRepo.MarkPaid(ctx, order.ID, paidAt); err != nil {
			return err
		}
		if err := ordersRepo.CreatePaymentAttempt(ctx, &models.PaymentAttempt{
			OrderID:           order.ID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			Signature:         req.RazorpaySignature,
			Status:            enums.PaymentAttemptCaptured,
		}); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).MarkConverted(ctx, order.CartID); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     outbox.EventOrderPaid,
			AggregateType: outbox.AggregateOrder,
			AggregateID:   order.ID,
			Data: orderPaidPayload{
				OrderID:           order.ID,
				UserID:            order.UserID,
				RazorpayPaymentID: req.RazorpayPaymentID,
				GrandTotal:        order.GrandTotal,
				PaidAt:            paidAt,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize payment")
	}

	s.metrics.IncVerification("captured")
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "payment verified")
	}

	// the cart just converted; tell badge listeners to re-fetch
	if err := s.publisher.Publish(ctx, events.TopicCartUpdated, events.CartUpdated{
		UserID:     order.UserID,
		CartID:     order.CartID,
		TotalItems: 0,
		OccurredAt: paidAt,
	}); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "cart update notification failed")
	}

	return &VerifyPaymentResponse{OrderID: order.ID, Status: string(enums.OrderStatusPaid)}, nil
}

// recordFailedAttempt persists the failure trail outside the happy path.
// The order is terminal after this; support reconciles it by hand.
func (s *service) recordFailedAttempt(ctx context.Context, order *models.Order, req VerifyPaymentRequest) error {
	reason := "signature mismatch"
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		if err := ordersRepo.MarkVerificationFailed(ctx, order.ID); err != nil {
			return err
		}
		return ordersRepo.CreatePaymentAttempt(ctx, &models.PaymentAttempt{
			OrderID:           order.ID,
			RazorpayPaymentID: req.RazorpayPaymentID,
			Signature:         req.RazorpaySignature,
			Status:            enums.PaymentAttemptFailed,
			FailureReason:     &reason,
		})
	})
}

func orderItemsFromCart(c *models.Cart) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		lineTotal := line.UnitPrice * line.Quantity
		if line.BechoProtectEnabled {
			lineTotal += line.BechoProtectFee
		}
		items = append(items, models.OrderItem{
			ProductID:           line.ProductID,
			Title:               line.Title,
			SKU:                 line.SKU,
			Quantity:            line.Quantity,
			UnitPrice:           line.UnitPrice,
			BechoProtectEnabled: line.BechoProtectEnabled,
			BechoProtectFee:     line.BechoProtectFee,
			LineTotal:           lineTotal,
		})
	}
	return items
}

func copyAddress(a *types.Address) *types.Address {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}
