package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/enums"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

// Order records one checkout attempt against the payment gateway. The
// pricing breakdown is persisted exactly as charged so the buyer-facing
// receipt never re-derives it.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	CartID          uuid.UUID         `gorm:"column:cart_id;type:uuid;not null"`
	RazorpayOrderID string            `gorm:"column:razorpay_order_id;not null;uniqueIndex"`
	Status          enums.OrderStatus `gorm:"column:status;not null;default:'created'"`
	Currency        string            `gorm:"column:currency;not null;default:'INR'"`
	ShippingAddress *types.Address    `gorm:"column:shipping_address;type:jsonb;serializer:json"`

	Subtotal              int `gorm:"column:subtotal;not null"`
	BechoProtectTotal     int `gorm:"column:becho_protect_total;not null;default:0"`
	PlatformFeePercentage int `gorm:"column:platform_fee_percentage;not null"`
	PlatformFee           int `gorm:"column:platform_fee;not null"`
	Tax                   int `gorm:"column:tax;not null"`
	Shipping              int `gorm:"column:shipping;not null"`
	GrandTotal            int `gorm:"column:grand_total;not null"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt    *time.Time  `gorm:"column:paid_at"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
