package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	pkgerrors "github.com/justbecho/justbecho-backend/pkg/errors"
	"github.com/justbecho/justbecho-backend/pkg/events"
	"github.com/justbecho/justbecho-backend/pkg/logger"
)

// MaxQuantityPerLine caps how many units of one listing a cart may hold.
const MaxQuantityPerLine = 10

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service owns the buyer's cart. Every mutation returns the refreshed
// snapshot so callers never patch local state.
type Service interface {
	GetActive(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Snapshot, error)
	UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Snapshot, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) (*Snapshot, error)
	SetBechoProtect(ctx context.Context, userID, itemID uuid.UUID, enabled bool) (*Snapshot, error)
}

type service struct {
	repo        CartRepository
	tx          txRunner
	productRepo productLoader
	publisher   events.Publisher
	logg        *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, productRepo productLoader, publisher events.Publisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:        repo,
		tx:          tx,
		productRepo: productRepo,
		publisher:   publisher,
		logg:        logg,
	}, nil
}

// AddItemInput captures the payload for adding a listing to the cart.
type AddItemInput struct {
	ProductID    uuid.UUID
	Quantity     int
	BechoProtect bool
}

// GetActive returns the user's cart snapshot. A user with no open cart
// gets the empty snapshot rather than a 404; the storefront always has
// something to render.
func (s *service) GetActive(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.repo.FindActiveByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewSnapshot(nil), nil
	}
	if err != nil {
		return nil, err
	}
	return NewSnapshot(cart), nil
}

// AddItem appends a product line to the active cart, creating the cart on
// first use. Adding a product already in the cart bumps its quantity.
// Title, price, and the protection fee are snapshotted from the listing.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 || input.Quantity > MaxQuantityPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", MaxQuantityPerLine))
	}

	product, err := s.productRepo.GetActiveByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.AvailableQty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is sold out")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = &models.Cart{UserID: userID}
			if err := repo.Create(ctx, cart); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		existing, err := repo.FindItemByProduct(ctx, cart.ID, input.ProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			newQty := existing.Quantity + input.Quantity
			if newQty > MaxQuantityPerLine {
				newQty = MaxQuantityPerLine
			}
			if newQty > product.AvailableQty {
				return pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds availability")
			}
			existing.Quantity = newQty
			return repo.UpdateItem(ctx, existing)
		}

		if input.Quantity > product.AvailableQty {
			return pkgerrors.New(pkgerrors.CodeConflict, "requested quantity exceeds availability")
		}
		item := &models.CartItem{
			CartID:              cart.ID,
			ProductID:           product.ID,
			Title:               product.Title,
			SKU:                 product.SKU,
			Quantity:            input.Quantity,
			UnitPrice:           product.Price,
			BechoProtectEnabled: input.BechoProtect,
			BechoProtectFee:     product.BechoProtectFee,
			FeaturedImage:       product.FeaturedImage,
		}
		return repo.CreateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// UpdateItemQty sets the quantity on an existing cart line.
func (s *service) UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*Snapshot, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}
	if quantity < 1 || quantity > MaxQuantityPerLine {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", MaxQuantityPerLine))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err != nil {
			return err
		}

		item.Quantity = quantity
		return repo.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// RemoveItem deletes one line from the cart.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err != nil {
			return err
		}

		if _, err := repo.FindItem(ctx, cart.ID, itemID); errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		} else if err != nil {
			return err
		}

		return repo.DeleteItem(ctx, cart.ID, itemID)
	})
	if err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// Clear empties the active cart. Clearing a missing cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return repo.DeleteItems(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// SetBechoProtect toggles buyer protection on one cart line. The fee was
// snapshotted at add time; toggling only changes whether it is charged.
func (s *service) SetBechoProtect(ctx context.Context, userID, itemID uuid.UUID, enabled bool) (*Snapshot, error) {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and item id are required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindActiveByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err != nil {
			return err
		}

		item, err := repo.FindItem(ctx, cart.ID, itemID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		if err != nil {
			return err
		}

		item.BechoProtectEnabled = enabled
		return repo.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.refresh(ctx, userID)
}

// refresh re-reads the cart and notifies listeners of the change.
func (s *service) refresh(ctx context.Context, userID uuid.UUID) (*Snapshot, error) {
	snapshot, err := s.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	event := events.CartUpdated{
		UserID:     userID,
		CartID:     snapshot.CartID,
		TotalItems: snapshot.TotalItems,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicCartUpdated, event); err != nil && s.logg != nil {
		// listeners re-fetch on their own schedule; a dropped notification
		// is not worth failing the mutation
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "cart update notification failed")
	}

	return snapshot, nil
}
