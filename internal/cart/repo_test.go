package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  converted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  title TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  becho_protect_enabled INTEGER NOT NULL DEFAULT 0,
  becho_protect_fee INTEGER NOT NULL DEFAULT 0,
  featured_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func TestRepositoryFindActiveByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	_, err := repo.FindActiveByUser(ctx, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	cart := &models.Cart{UserID: userID}
	require.NoError(t, repo.Create(ctx, cart))
	require.NotEqual(t, uuid.Nil, cart.ID)

	require.NoError(t, repo.CreateItem(ctx, &models.CartItem{
		CartID:    cart.ID,
		ProductID: uuid.New(),
		Title:     "Bookshelf",
		SKU:       "BS-1",
		Quantity:  2,
		UnitPrice: 1200,
	}))

	found, err := repo.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	assert.Equal(t, enums.CartStatusActive, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2400, found.Subtotal())
}

func TestRepositoryMarkConvertedHidesCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	cart := &models.Cart{UserID: userID}
	require.NoError(t, repo.Create(ctx, cart))
	require.NoError(t, repo.MarkConverted(ctx, cart.ID))

	_, err := repo.FindActiveByUser(ctx, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryItemLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, cart))

	productID := uuid.New()
	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: productID,
		Title:     "Jacket",
		SKU:       "JK-9",
		Quantity:  1,
		UnitPrice: 999,
	}
	require.NoError(t, repo.CreateItem(ctx, item))

	byProduct, err := repo.FindItemByProduct(ctx, cart.ID, productID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, byProduct.ID)

	byProduct.Quantity = 3
	require.NoError(t, repo.UpdateItem(ctx, byProduct))

	reloaded, err := repo.FindItem(ctx, cart.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Quantity)

	// scoping: another cart cannot see or delete the item
	otherCart := &models.Cart{UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, otherCart))
	_, err = repo.FindItem(ctx, otherCart.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteItem(ctx, cart.ID, item.ID))
	_, err = repo.FindItem(ctx, cart.ID, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteItemsEmptiesCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	cart := &models.Cart{UserID: uuid.New()}
	require.NoError(t, repo.Create(ctx, cart))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateItem(ctx, &models.CartItem{
			CartID:    cart.ID,
			ProductID: uuid.New(),
			Title:     "Item",
			SKU:       uuid.NewString(),
			Quantity:  1,
			UnitPrice: 100,
		}))
	}

	require.NoError(t, repo.DeleteItems(ctx, cart.ID))

	found, err := repo.FindActiveByUser(ctx, cart.UserID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}
