package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/pagination"
)

// Repository exposes order persistence for checkout and order history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.Order) error
	FindByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, string, error)

	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkVerificationFailed(ctx context.Context, id uuid.UUID) error
	CreatePaymentAttempt(ctx context.Context, attempt *models.PaymentAttempt) error
}
