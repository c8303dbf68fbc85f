package storage

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a storage repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListFacilities(ctx context.Context) ([]models.StorageFacility, error) {
	var facilities []models.StorageFacility
	err := r.db.WithContext(ctx).Order("name ASC").Find(&facilities).Error
	return facilities, err
}

func (r *repository) FindFacility(ctx context.Context, id uuid.UUID) (*models.StorageFacility, error) {
	var facility models.StorageFacility
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&facility).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *repository) DecrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StorageFacility{}).
		Where("id = ? AND available_kg >= ?", facilityID, quantityKg).
		Update("available_kg", gorm.Expr("available_kg - ?", quantityKg))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) IncrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) error {
	return r.db.WithContext(ctx).
		Model(&models.StorageFacility{}).
		Where("id = ?", facilityID).
		Update("available_kg", gorm.Expr("available_kg + ?", quantityKg)).Error
}

func (r *repository) CreateBooking(ctx context.Context, booking *models.StorageBooking) (*models.StorageBooking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindBooking(ctx context.Context, id uuid.UUID) (*models.StorageBooking, error) {
	var booking models.StorageBooking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// ReleaseBookingIfReserved flips the booking to released only once, so a
// double release cannot inflate facility availability.
func (r *repository) ReleaseBookingIfReserved(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StorageBooking{}).
		Where("id = ? AND status = ?", id, enums.BookingStatusReserved).
		Update("status", enums.BookingStatusReleased)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListBookingsForCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.StorageBooking, error) {
	var bookings []models.StorageBooking
	err := r.db.WithContext(ctx).
		Where("contract_id IN (?)",
			r.db.Model(&models.ContractLot{}).
				Select("DISTINCT contract_lots.contract_id").
				Joins("JOIN lots ON lots.id = contract_lots.lot_id").
				Where("lots.cooperative_id = ?", cooperativeID)).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error) {
	var bookings []models.StorageBooking
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) FindContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	var coopID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ContractLot{}).
		Select("lots.cooperative_id").
		Joins("JOIN lots ON lots.id = contract_lots.lot_id").
		Where("contract_lots.contract_id = ?", contractID).
		Limit(1).
		Scan(&coopID).Error
	if err != nil {
		return uuid.Nil, err
	}
	if coopID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return coopID, nil
}

func (r *repository) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", managerUserID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}
