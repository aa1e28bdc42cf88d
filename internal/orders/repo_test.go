package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
	"github.com/justbecho/justbecho-backend/pkg/pagination"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  cart_id TEXT NOT NULL,
  razorpay_order_id TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'created',
  currency TEXT NOT NULL DEFAULT 'INR',
  shipping_address TEXT,
  subtotal INTEGER NOT NULL,
  becho_protect_total INTEGER NOT NULL DEFAULT 0,
  platform_fee_percentage INTEGER NOT NULL,
  platform_fee INTEGER NOT NULL,
  tax INTEGER NOT NULL,
  shipping INTEGER NOT NULL,
  grand_total INTEGER NOT NULL,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  becho_protect_enabled INTEGER NOT NULL DEFAULT 0,
  becho_protect_fee INTEGER NOT NULL DEFAULT 0,
  line_total INTEGER NOT NULL,
  created_at DATETIME
);`
	paymentAttempts := `
CREATE TABLE IF NOT EXISTS payment_attempts (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  razorpay_payment_id TEXT NOT NULL,
  signature TEXT NOT NULL,
  status TEXT NOT NULL,
  failure_reason TEXT,
  created_at DATETIME
);`

	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	require.NoError(t, db.Exec(paymentAttempts).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, userID uuid.UUID, razorpayID string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:          userID,
		CartID:          uuid.New(),
		RazorpayOrderID: razorpayID,
		Status:          enums.OrderStatusCreated,
		Currency:        "INR",
		ShippingAddress: &types.Address{Street: "12 MG Road", City: "Bengaluru", State: "KA", Pincode: "560001"},
		Subtotal:              4000,
		PlatformFeePercentage: 28,
		PlatformFee:           1120,
		Tax:                   202,
		Shipping:              299,
		GrandTotal:            5621,
		CreatedAt:             createdAt,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Title: "Camera", SKU: "CAM-1", Quantity: 1, UnitPrice: 4000, LineTotal: 4000},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryCreateAndFindByRazorpayOrderID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), "order_test123", time.Now())

	found, err := repo.FindByRazorpayOrderID(ctx, "order_test123")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, 5621, found.GrandTotal)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "CAM-1", found.Items[0].SKU)

	_, err = repo.FindByRazorpayOrderID(ctx, "order_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByIDAndUserScoping(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	order := seedOrder(t, repo, userID, "order_scoped", time.Now())

	found, err := repo.FindByIDAndUser(ctx, order.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByIDAndUser(ctx, order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListByUserPaginates(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedOrder(t, repo, userID, uuid.NewString(), base.Add(time.Duration(i)*time.Minute))
	}
	// another user's order must not leak into the page
	seedOrder(t, repo, uuid.New(), uuid.NewString(), base)

	page1, cursor, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotEmpty(t, cursor)
	assert.True(t, page1[0].CreatedAt.After(page1[2].CreatedAt), "expected newest first")

	page2, cursor2, err := repo.ListByUser(ctx, userID, pagination.Params{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Empty(t, cursor2)

	seen := map[uuid.UUID]bool{}
	for _, o := range append(page1, page2...) {
		assert.Equal(t, userID, o.UserID)
		assert.False(t, seen[o.ID], "order repeated across pages")
		seen[o.ID] = true
	}
}

func TestRepositoryMarkPaidAndVerificationFailed(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	paid := seedOrder(t, repo, userID, "order_paid", time.Now())
	failed := seedOrder(t, repo, userID, "order_failed", time.Now())

	at := time.Now()
	require.NoError(t, repo.MarkPaid(ctx, paid.ID, at))
	require.NoError(t, repo.MarkVerificationFailed(ctx, failed.ID))

	reloaded, err := repo.FindByIDAndUser(ctx, paid.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, reloaded.Status)
	require.NotNil(t, reloaded.PaidAt)

	reloaded, err = repo.FindByIDAndUser(ctx, failed.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusVerificationFailed, reloaded.Status)
	assert.Nil(t, reloaded.PaidAt)
}

func TestRepositoryCreatePaymentAttempt(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, repo, uuid.New(), "order_attempt", time.Now())

	reason := "signature mismatch"
	require.NoError(t, repo.CreatePaymentAttempt(ctx, &models.PaymentAttempt{
		OrderID:           order.ID,
		RazorpayPaymentID: "pay_123",
		Signature:         "deadbeef",
		Status:            enums.PaymentAttemptFailed,
		FailureReason:     &reason,
	}))

	var count int64
	require.NoError(t, db.Model(&models.PaymentAttempt{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
