package storage

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

func setupStorageTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS storage_facilities (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  location TEXT NOT NULL,
  capacity_kg REAL NOT NULL,
  available_kg REAL NOT NULL,
  features TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS storage_bookings (
  id TEXT PRIMARY KEY,
  storage_facility_id TEXT NOT NULL,
  contract_id TEXT NOT NULL,
  lot_id TEXT,
  quantity_kg REAL NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'reserved',
  created_at DATETIME,
  updated_at DATETIME
);`}

	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM storage_bookings")
		db.Exec("DELETE FROM storage_facilities")
	})

	return db
}

func seedFacility(t *testing.T, db *gorm.DB, availableKg float64) models.StorageFacility {
	t.Helper()
	facility := models.StorageFacility{
		ID:          uuid.New(),
		Name:        "Kigali Cold Store",
		Location:    "Kigali",
		CapacityKg:  10000,
		AvailableKg: availableKg,
	}
	require.NoError(t, db.Create(&facility).Error)
	return facility
}

func TestRepositoryDecrementAvailability_guardsBalance(t *testing.T) {
	db := setupStorageTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	facility := seedFacility(t, db, 1000)

	ok, err := repo.DecrementAvailability(ctx, facility.ID, 800)
	require.NoError(t, err)
	assert.True(t, ok)

	// Only 200 kg remain; another 800 kg must be refused.
	ok, err = repo.DecrementAvailability(ctx, facility.ID, 800)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindFacility(ctx, facility.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, stored.AvailableKg, 0.001)
}

func TestRepositoryIncrementAvailability(t *testing.T) {
	db := setupStorageTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	facility := seedFacility(t, db, 200)

	require.NoError(t, repo.IncrementAvailability(ctx, facility.ID, 800))

	stored, err := repo.FindFacility(ctx, facility.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1000, stored.AvailableKg, 0.001)
}

func TestRepositoryReleaseBookingIfReserved_once(t *testing.T) {
	db := setupStorageTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	facility := seedFacility(t, db, 1000)
	start := time.Now().UTC()
	booking := models.StorageBooking{
		ID:                uuid.New(),
		StorageFacilityID: facility.ID,
		ContractID:        uuid.New(),
		QuantityKg:        500,
		StartDate:         start,
		EndDate:           start.Add(7 * 24 * time.Hour),
		Status:            enums.BookingStatusReserved,
	}
	require.NoError(t, db.Create(&booking).Error)

	released, err := repo.ReleaseBookingIfReserved(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, released)

	released, err = repo.ReleaseBookingIfReserved(ctx, booking.ID)
	require.NoError(t, err)
	assert.False(t, released)

	stored, err := repo.FindBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusReleased, stored.Status)
}
