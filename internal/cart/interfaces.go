package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

// Repository defines persistence operations for buyer carts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	FindItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	FindItemByListing(ctx context.Context, userID, listingID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, id uuid.UUID, quantityKg float64) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ClearUser(ctx context.Context, userID uuid.UUID) error

	FindListing(ctx context.Context, id uuid.UUID) (*models.MarketListing, error)
	FindBuyerProfileByUser(ctx context.Context, userID uuid.UUID) (*models.BuyerProfile, error)
	CreateOrder(ctx context.Context, order *models.BuyerOrder) (*models.BuyerOrder, error)
}
