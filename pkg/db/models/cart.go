package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/enums"
)

// Cart is the server-owned cart snapshot for one buyer. The client never
// holds more than a read-only copy of it.
type Cart struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Items       []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	ConvertedAt *time.Time       `gorm:"column:converted_at"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Subtotal sums quantity times unit price across all items, in rupees.
func (c *Cart) Subtotal() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		total += item.UnitPrice * item.Quantity
	}
	return total
}

// BechoProtectTotal sums the protection add-on fees for enabled lines.
func (c *Cart) BechoProtectTotal() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, item := range c.Items {
		if item.BechoProtectEnabled {
			total += item.BechoProtectFee
		}
	}
	return total
}

// TotalItems counts units across all lines.
func (c *Cart) TotalItems() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
