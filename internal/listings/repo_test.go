package listings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

func setupListingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	marketListings := `
CREATE TABLE IF NOT EXISTS market_listings (
  id TEXT PRIMARY KEY,
  cooperative_id TEXT NOT NULL,
  crop TEXT NOT NULL,
  quantity_kg REAL NOT NULL,
  minimum_price REAL NOT NULL,
  availability_window_start DATETIME,
  availability_window_end DATETIME,
  quality_grade TEXT,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	lots := `
CREATE TABLE IF NOT EXISTS lots (
  id TEXT PRIMARY KEY,
  cooperative_id TEXT NOT NULL,
  farmer_id TEXT,
  crop TEXT NOT NULL,
  quantity_kg REAL NOT NULL,
  quality_grade TEXT,
  status TEXT NOT NULL DEFAULT 'listed',
  harvested_at DATETIME,
  expected_harvest_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

	for _, stmt := range []string{marketListings, lots} {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM market_listings")
		db.Exec("DELETE FROM lots")
	})

	return db
}

func seedListing(t *testing.T, db *gorm.DB, coopID uuid.UUID, crop string, status enums.ListingStatus) models.MarketListing {
	t.Helper()
	listing := models.MarketListing{
		ID:            uuid.New(),
		CooperativeID: coopID,
		Crop:          crop,
		QuantityKg:    100,
		MinimumPrice:  300,
		Status:        status,
	}
	require.NoError(t, db.Create(&listing).Error)
	return listing
}

func TestRepositoryListActive_filtersStatusAndCrop(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	coopID := uuid.New()
	active := seedListing(t, db, coopID, "maize", enums.ListingStatusActive)
	seedListing(t, db, coopID, "maize", enums.ListingStatusClosed)
	seedListing(t, db, coopID, "beans", enums.ListingStatusActive)

	listings, err := repo.ListActive(ctx, "maize")
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, active.ID, listings[0].ID)

	all, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepositoryUpdateListingStatus(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	listing := seedListing(t, db, uuid.New(), "maize", enums.ListingStatusActive)

	require.NoError(t, repo.UpdateListingStatus(ctx, listing.ID, enums.ListingStatusClosed))

	stored, err := repo.FindListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ListingStatusClosed, stored.Status)
}

func TestRepositorySumListedLotQuantity(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	coopID := uuid.New()
	now := time.Now().UTC()
	lots := []models.Lot{
		{ID: uuid.New(), CooperativeID: coopID, Crop: "maize", QuantityKg: 150, Status: enums.LotStatusListed, ExpectedHarvestDate: now},
		{ID: uuid.New(), CooperativeID: coopID, Crop: "maize", QuantityKg: 50, Status: enums.LotStatusReserved, ExpectedHarvestDate: now},
		{ID: uuid.New(), CooperativeID: uuid.New(), Crop: "maize", QuantityKg: 75, Status: enums.LotStatusListed, ExpectedHarvestDate: now},
	}
	for i := range lots {
		require.NoError(t, db.Create(&lots[i]).Error)
	}

	total, err := repo.SumListedLotQuantity(ctx, coopID, "maize")
	require.NoError(t, err)
	assert.InDelta(t, 150, total, 0.001)
}
