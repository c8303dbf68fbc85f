package storage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

// Repository defines persistence operations for storage facilities and
// bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListFacilities(ctx context.Context) ([]models.StorageFacility, error)
	FindFacility(ctx context.Context, id uuid.UUID) (*models.StorageFacility, error)

	// DecrementAvailability subtracts quantity from available_kg only when
	// enough remains; returns false when the facility cannot absorb the load.
	DecrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) (bool, error)
	IncrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) error

	CreateBooking(ctx context.Context, booking *models.StorageBooking) (*models.StorageBooking, error)
	FindBooking(ctx context.Context, id uuid.UUID) (*models.StorageBooking, error)
	ReleaseBookingIfReserved(ctx context.Context, id uuid.UUID) (bool, error)
	ListBookingsForCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.StorageBooking, error)
	ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error)

	FindContract(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error)
	FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error)
}
