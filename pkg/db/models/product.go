package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is the sellable listing. Prices are whole rupees.
type Product struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title           string    `gorm:"column:title;not null"`
	SKU             string    `gorm:"column:sku;not null;uniqueIndex"`
	Price           int       `gorm:"column:price;not null"`
	BechoProtectFee int       `gorm:"column:becho_protect_fee;not null;default:0"`
	FeaturedImage   *string   `gorm:"column:featured_image"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	AvailableQty    int       `gorm:"column:available_qty;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
