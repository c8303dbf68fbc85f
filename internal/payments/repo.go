package payments

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

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error) {
	var order models.BuyerOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.BuyerOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error) {
	var profile models.BuyerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) FindContractByOrder(ctx context.Context, orderID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Where("buyer_order_id = ?", orderID).First(&contract).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *repository) UpdateContractStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Contract{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ContractLotShares(ctx context.Context, contractID uuid.UUID) ([]LotShare, error) {
	var shares []LotShare
	err := r.db.WithContext(ctx).
		Model(&models.ContractLot{}).
		Select("lots.farmer_id, lots.quantity_kg").
		Joins("JOIN lots ON lots.id = contract_lots.lot_id").
		Where("contract_lots.contract_id = ?", contractID).
		Scan(&shares).Error
	return shares, err
}

func (r *repository) CreateLedger(ctx context.Context, ledger *models.PaymentLedger) (*models.PaymentLedger, error) {
	if err := r.db.WithContext(ctx).Create(ledger).Error; err != nil {
		return nil, err
	}
	return ledger, nil
}

func (r *repository) FindLedgerByContract(ctx context.Context, contractID uuid.UUID) (*models.PaymentLedger, error) {
	var ledger models.PaymentLedger
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&ledger).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *repository) UpdateLedgerStatus(ctx context.Context, id uuid.UUID, status enums.EscrowStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PaymentLedger{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) LatestTransportByContract(ctx context.Context, contractID uuid.UUID) (*models.TransportRequest, error) {
	var req models.TransportRequest
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateTransportStatus(ctx context.Context, id uuid.UUID, status enums.TransportStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.TransportRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) CreateBalances(ctx context.Context, balances []models.FarmerBalance) error {
	if len(balances) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&balances).Error
}

func (r *repository) ListBalancesByContract(ctx context.Context, contractID uuid.UUID) ([]models.FarmerBalance, error) {
	var balances []models.FarmerBalance
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) ListBalancesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerBalance, error) {
	var balances []models.FarmerBalance
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) UpdateBalance(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.FarmerBalance{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) FindFarmerByUser(ctx context.Context, userID uuid.UUID) (*models.Farmer, error) {
	var farmer models.Farmer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&farmer).Error; err != nil {
		return nil, err
	}
	return &farmer, nil
}

func (r *repository) FindCooperativeByManager(ctx context.Context, userID uuid.UUID) (*models.Cooperative, error) {
	var coop models.Cooperative
	if err := r.db.WithContext(ctx).Where("manager_user_id = ?", userID).First(&coop).Error; err != nil {
		return nil, err
	}
	return &coop, nil
}

// ContractCooperativeID resolves the cooperative behind a contract through its
// allocated lots. Whole lots only, so the first row is authoritative.
func (r *repository) ContractCooperativeID(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	var coopID uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ContractLot{}).
		Select("lots.cooperative_id").
		Joins("JOIN lots ON lots.id = contract_lots.lot_id").
		Where("contract_lots.contract_id = ?", contractID).
		Limit(1).
		Scan(&coopID).Error
	return coopID, err
}
