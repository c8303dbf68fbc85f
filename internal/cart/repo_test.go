package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  market_listing_id TEXT NOT NULL,
  quantity_kg REAL NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM cart_items")
	})

	return db
}

func TestRepositoryCartLifecycle(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	listingID := uuid.New()

	item, err := repo.CreateItem(ctx, &models.CartItem{
		ID:              uuid.New(),
		UserID:          userID,
		MarketListingID: listingID,
		QuantityKg:      120,
	})
	require.NoError(t, err)

	byListing, err := repo.FindItemByListing(ctx, userID, listingID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, byListing.ID)

	_, err = repo.FindItemByListing(ctx, uuid.New(), listingID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdateItemQuantity(ctx, item.ID, 200))
	stored, err := repo.FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, stored.QuantityKg, 0.001)

	require.NoError(t, repo.DeleteItem(ctx, item.ID))
	_, err = repo.FindItem(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryClearUserLeavesOtherCarts(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine := uuid.New()
	other := uuid.New()
	for _, userID := range []uuid.UUID{mine, mine, other} {
		_, err := repo.CreateItem(ctx, &models.CartItem{
			ID:              uuid.New(),
			UserID:          userID,
			MarketListingID: uuid.New(),
			QuantityKg:      50,
		})
		require.NoError(t, err)
	}

	require.NoError(t, repo.ClearUser(ctx, mine))

	remaining, err := repo.ListByUser(ctx, mine)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	theirs, err := repo.ListByUser(ctx, other)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
