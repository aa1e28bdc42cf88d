package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem snapshots a product line inside a cart. Title, price, and the
// Becho Protect fee are frozen at add time so later product edits do not
// shift an open cart.
type CartItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID              uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Title               string    `gorm:"column:title;not null"`
	SKU                 string    `gorm:"column:sku;not null"`
	Quantity            int       `gorm:"column:quantity;not null"`
	UnitPrice           int       `gorm:"column:unit_price;not null"`
	BechoProtectEnabled bool      `gorm:"column:becho_protect_enabled;not null;default:false"`
	BechoProtectFee     int       `gorm:"column:becho_protect_fee;not null;default:0"`
	FeaturedImage       *string   `gorm:"column:featured_image"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *CartItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
