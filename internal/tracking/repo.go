package tracking

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tracking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindContractByTrackingID(ctx context.Context, trackingID string) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Where("tracking_id = ?", trackingID).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error) {
	var order models.BuyerOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListTransportByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error) {
	var legs []models.TransportRequest
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&legs).Error
	return legs, err
}

func (r *repository) ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error) {
	var bookings []models.StorageBooking
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&bookings).Error
	return bookings, err
}
