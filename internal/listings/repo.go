package listings

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

// NewRepository builds a listings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateListing(ctx context.Context, listing *models.MarketListing) (*models.MarketListing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *repository) FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error) {
	var listing models.MarketListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) ListActive(ctx context.Context, crop string) ([]models.MarketListing, error) {
	query := r.db.WithContext(ctx).Where("status = ?", enums.ListingStatusActive)
	if crop != "" {
		query = query.Where("crop = ?", crop)
	}
	var listings []models.MarketListing
	err := query.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (r *repository) ListByCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.MarketListing, error) {
	var listings []models.MarketListing
	err := r.db.WithContext(ctx).
		Where("cooperative_id = ?", cooperativeID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *repository) UpdateListingStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.MarketListing{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) SumListedLotQuantity(ctx context.Context, cooperativeID uuid.UUID, crop string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Select("COALESCE(SUM(quantity_kg), 0)").
		Where("cooperative_id = ? AND crop = ? AND status = ?", cooperativeID, crop, enums.LotStatusListed).
		Scan(&total).Error
	return total, err
}

func (r *repository) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", managerUserID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}
