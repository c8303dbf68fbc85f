package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one buyer cart line pointing at an active listing.
type CartItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	MarketListingID uuid.UUID `gorm:"column:market_listing_id;type:uuid;not null"`
	QuantityKg      float64   `gorm:"column:quantity_kg;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
