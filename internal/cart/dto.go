package cart

import (
	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/internal/pricing"
	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
)

// ItemView is the API shape of one cart line.
type ItemView struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	Title               string    `json:"title"`
	SKU                 string    `json:"sku"`
	Quantity            int       `json:"quantity"`
	UnitPrice           int       `json:"unit_price"`
	LineTotal           int       `json:"line_total"`
	BechoProtectEnabled bool      `json:"becho_protect_enabled"`
	BechoProtectFee     int       `json:"becho_protect_fee"`
	FeaturedImage       *string   `json:"featured_image,omitempty"`
}

// Snapshot is the full server-owned cart state returned after every read
// and mutation. The client renders it as-is and never derives totals
// locally.
type Snapshot struct {
	CartID     uuid.UUID        `json:"cart_id"`
	Status     enums.CartStatus `json:"status"`
	Items      []ItemView       `json:"items"`
	TotalItems int              `json:"total_items"`
	Totals     pricing.Totals   `json:"totals"`
}

// NewSnapshot maps a cart model to its API shape, pricing included.
// A nil cart produces the empty snapshot (zero totals plus flat shipping).
func NewSnapshot(cart *models.Cart) *Snapshot {
	if cart == nil {
		return &Snapshot{
			Items:  []ItemView{},
			Totals: pricing.Compute(nil),
		}
	}

	items := make([]ItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, ItemView{
			ID:                  item.ID,
			ProductID:           item.ProductID,
			Title:               item.Title,
			SKU:                 item.SKU,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			LineTotal:           item.UnitPrice * item.Quantity,
			BechoProtectEnabled: item.BechoProtectEnabled,
			BechoProtectFee:     item.BechoProtectFee,
			FeaturedImage:       item.FeaturedImage,
		})
	}

	return &Snapshot{
		CartID:     cart.ID,
		Status:     cart.Status,
		Items:      items,
		TotalItems: cart.TotalItems(),
		Totals:     pricing.Compute(cart),
	}
}
