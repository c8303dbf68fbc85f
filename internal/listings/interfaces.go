package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Repository defines persistence operations for market listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateListing(ctx context.Context, listing *models.MarketListing) (*models.MarketListing, error)
	FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error)
	ListActive(ctx context.Context, crop string) ([]models.MarketListing, error)
	ListByCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.MarketListing, error)
	UpdateListingStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error
	SumListedLotQuantity(ctx context.Context, cooperativeID uuid.UUID, crop string) (float64, error)
	FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error)
}
