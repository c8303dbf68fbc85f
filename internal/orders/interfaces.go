package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Repository defines persistence operations for buyer orders, contracts and
// the lot reservation the accept flow depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.BuyerOrder) (*models.BuyerOrder, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error)
	DecideOrderIfOpen(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (bool, error)
	ListByBuyerProfile(ctx context.Context, buyerProfileID uuid.UUID) ([]models.BuyerOrder, error)
	ListForCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.BuyerOrder, error)

	CreateContract(ctx context.Context, contract *models.Contract) (*models.Contract, error)
	CreateContractLots(ctx context.Context, links []models.ContractLot) error
	FindContractByOrder(ctx context.Context, orderID uuid.UUID) (*models.Contract, error)

	ListedLotsForCrop(ctx context.Context, cooperativeID uuid.UUID, crop string, limit int) ([]models.Lot, error)
	ReserveLotIfListed(ctx context.Context, lotID uuid.UUID) (bool, error)

	FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error)
	FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error)
	FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error)
}
