package orders

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

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.BuyerOrder) (*models.BuyerOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error) {
	var order models.BuyerOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// DecideOrderIfOpen flips an order to its decision only when it is still
// open, so two concurrent responses can never both land.
func (r *repository) DecideOrderIfOpen(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.BuyerOrder{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusOpen).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListByBuyerProfile(ctx context.Context, buyerProfileID uuid.UUID) ([]models.BuyerOrder, error) {
	var orders []models.BuyerOrder
	err := r.db.WithContext(ctx).
		Where("buyer_profile_id = ?", buyerProfileID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ListForCooperative returns orders against the cooperative's listings plus
// open broadcast orders that name no listing.
func (r *repository) ListForCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.BuyerOrder, error) {
	var orders []models.BuyerOrder
	err := r.db.WithContext(ctx).
		Where("market_listing_id IN (?)",
			r.db.Model(&models.MarketListing{}).Select("id").Where("cooperative_id = ?", cooperativeID)).
		Or("market_listing_id IS NULL AND status = ?", enums.OrderStatusOpen).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *repository) CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error) {
	if err := r.db.WithContext(ctx).Create(contract).Error; err != nil {
		return nil, err
	}
	return contract, nil
}

func (r *repository) CreateContractLots(ctx context.Context, links []models.ContractLot) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *repository) FindContractByOrder(ctx context.Context, orderID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Where("buyer_order_id = ?", orderID).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
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

// ReserveLotIfListed flips a lot to reserved only when it is still listed, so
// two concurrent accepts can never reserve the same lot.
func (r *repository) ReserveLotIfListed(ctx context.Context, lotID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ? AND status = ?", lotID, enums.LotStatusListed).
		Update("status", enums.LotStatusReserved)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error) {
	var listing models.MarketListing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repository) FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", managerUserID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}
