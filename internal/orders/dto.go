package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
	"github.com/justbecho/justbecho-backend/pkg/types"
)

// ItemDTO is the API shape of one order line.
type ItemDTO struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	Title               string    `json:"title"`
	SKU                 string    `json:"sku"`
	Quantity            int       `json:"quantity"`
	UnitPrice           int       `json:"unit_price"`
	LineTotal           int       `json:"line_total"`
	BechoProtectEnabled bool      `json:"becho_protect_enabled"`
	BechoProtectFee     int       `json:"becho_protect_fee"`
}

// OrderDTO is the API shape of an order, pricing breakdown included.
type OrderDTO struct {
	ID                    uuid.UUID         `json:"id"`
	RazorpayOrderID       string            `json:"razorpay_order_id"`
	Status                enums.OrderStatus `json:"status"`
	Currency              string            `json:"currency"`
	ShippingAddress       *types.Address    `json:"shipping_address,omitempty"`
	Subtotal              int               `json:"subtotal"`
	BechoProtectTotal     int               `json:"becho_protect_total"`
	PlatformFeePercentage int               `json:"platform_fee_percentage"`
	PlatformFee           int               `json:"platform_fee"`
	Tax                   int               `json:"tax"`
	Shipping              int               `json:"shipping"`
	GrandTotal            int               `json:"grand_total"`
	Items                 []ItemDTO         `json:"items"`
	PaidAt                *time.Time        `json:"paid_at,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}

// ListResponse is a cursor page of orders.
type ListResponse struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted order to its API shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ItemDTO{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			Title:               item.Title,
			SKU:                 item.SKU,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			LineTotal:           item.LineTotal,
			BechoProtectEnabled: item.BechoProtectEnabled,
			BechoProtectFee:     item.BechoProtectFee,
		})
	}
	return &OrderDTO{
		ID:                    order.ID,
		RazorpayOrderID:       order.RazorpayOrderID,
		Status:                order.Status,
		Currency:              order.Currency,
		ShippingAddress:       order.ShippingAddress,
		Subtotal:              order.Subtotal,
		BechoProtectTotal:     order.BechoProtectTotal,
		PlatformFeePercentage: order.PlatformFeePercentage,
		PlatformFee:           order.PlatformFee,
		Tax:                   order.Tax,
		Shipping:              order.Shipping,
		GrandTotal:            order.GrandTotal,
		Items:                 items,
		PaidAt:                order.PaidAt,
		CreatedAt:             order.CreatedAt,
	}
}
