package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// LotShare is one lot's contribution to a contract, carrying the farmer who
// grew it. FarmerID is nil for cooperative-owned lots.
type LotShare struct {
	FarmerID   *uuid.UUID
	QuantityKg float64
}

// Repository defines persistence operations for escrow ledgers and farmer
// settlement.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error)

	FindContract(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	FindContractByOrder(ctx context.Context, orderID uuid.UUID) (*models.Contract, error)
	UpdateContractStatus(ctx context.Context, id uuid.UUID, status enums.ContractStatus) error
	ContractLotShares(ctx context.Context, contractID uuid.UUID) ([]LotShare, error)

	CreateLedger(ctx context.Context, ledger *models.PaymentLedger) (*models.PaymentLedger, error)
	FindLedgerByContract(ctx context.Context, contractID uuid.UUID) (*models.PaymentLedger, error)
	UpdateLedgerStatus(ctx context.Context, id uuid.UUID, status enums.EscrowStatus) error

	LatestTransportByContract(ctx context.Context, contractID uuid.UUID) (*models.TransportRequest, error)
	UpdateTransportStatus(ctx context.Context, id uuid.UUID, status enums.TransportStatus) error

	CreateBalances(ctx context.Context, balances []models.FarmerBalance) error
	ListBalancesByContract(ctx context.Context, contractID uuid.UUID) ([]models.FarmerBalance, error)
	ListBalancesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.FarmerBalance, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, updates map[string]any) error

	FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	FindFarmerByUser(ctx context.Context, userID uuid.UUID) (*models.Farmer, error)

	FindCooperativeByManager(ctx context.Context, userID uuid.UUID) (*models.Cooperative, error)
	ContractCooperativeID(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error)
}
