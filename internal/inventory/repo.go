package inventory

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

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateLot(ctx context.Context, lot *models.Lot) (*models.Lot, error) {
	if err := r.db.WithContext(ctx).Create(lot).Error; err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *repository) FindLot(ctx context.Context, id uuid.UUID) (*models.Lot, error) {
	var lot models.Lot
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&lot).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *repository) ListByCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.Lot, error) {
	var lots []models.Lot
	err := r.db.WithContext(ctx).
		Where("cooperative_id = ?", cooperativeID).
		Order("created_at DESC").
		Find(&lots).Error
	return lots, err
}

func (r *repository) ListedLotsForCrop(ctx context.Context, cooperativeID uuid.UUID, crop string, limit int) ([]models.Lot, error) {
	var lots []models.Lot
	err := r.db.WithContext(ctx).
		Where("cooperative_id = ? AND crop = ? AND status = ?", cooperativeID, crop, enums.LotStatusListed).
		Order("expected_harvest_date ASC").
		Limit(limit).
		Find(&lots).Error
	return lots, err
}

func (r *repository) SumListedQuantity(ctx context.Context, cooperativeID uuid.UUID, crop string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Select("COALESCE(SUM(quantity_kg), 0)").
		Where("cooperative_id = ? AND crop = ? AND status = ?", cooperativeID, crop, enums.LotStatusListed).
		Scan(&total).Error
	return total, err
}

func (r *repository) UpdateLotStatus(ctx context.Context, id uuid.UUID, status enums.LotStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", managerUserID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}

func (r *repository) FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}
