package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Repository defines persistence operations for lots and the party lookups
// the inventory flows need.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateLot(ctx context.Context, lot *models.Lot) (*models.Lot, error)
	FindLot(ctx context.Context, id uuid.UUID) (*models.Lot, error)
	ListByCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.Lot, error)
	ListedLotsForCrop(ctx context.Context, cooperativeID uuid.UUID, crop string, limit int) ([]models.Lot, error)
	SumListedQuantity(ctx context.Context, cooperativeID uuid.UUID, crop string) (float64, error)
	UpdateLotStatus(ctx context.Context, id uuid.UUID, status enums.LotStatus) error
	FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error)
	FindFarmer(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
}
