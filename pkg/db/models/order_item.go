package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderItem freezes a cart line at order-creation time.
type OrderItem struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID             uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID           uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Title               string    `gorm:"column:title;not null"`
	SKU                 string    `gorm:"column:sku;not null"`
	Quantity            int       `gorm:"column:quantity;not null"`
	UnitPrice           int       `gorm:"column:unit_price;not null"`
	BechoProtectEnabled bool      `gorm:"column:becho_protect_enabled;not null;default:false"`
	BechoProtectFee     int       `gorm:"column:becho_protect_fee;not null;default:0"`
	LineTotal           int       `gorm:"column:line_total;not null"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
