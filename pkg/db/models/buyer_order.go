package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// BuyerOrder is a buyer's request for produce, optionally pinned to a listing.
type BuyerOrder struct {
	ID                  uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerProfileID      uuid.UUID         `gorm:"column:buyer_profile_id;type:uuid;not null;index"`
	MarketListingID     *uuid.UUID        `gorm:"column:market_listing_id;type:uuid"`
	Crop                string            `gorm:"column:crop;not null"`
	QuantityKg          float64           `gorm:"column:quantity_kg;not null"`
	PriceOffer          float64           `gorm:"column:price_offer;not null"`
	DeliveryLocation    string            `gorm:"column:delivery_location;not null"`
	DeliveryWindowStart time.Time         `gorm:"column:delivery_window_start;not null"`
	DeliveryWindowEnd   time.Time         `gorm:"column:delivery_window_end;not null"`
	Notes               string            `gorm:"column:notes"`
	Status              enums.OrderStatus `gorm:"column:status;type:text;not null;default:'open'"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
