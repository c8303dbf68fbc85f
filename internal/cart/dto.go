package cart

import (
	"time"

	"github.com/google/uuid"
)

// AddItemInput captures a buyer adding a listing to their cart.
type AddItemInput struct {
	ActorUserID     uuid.UUID
	MarketListingID uuid.UUID `validate:"required"`
	QuantityKg      float64   `validate:"required,gt=0"`
}

// UpdateItemInput adjusts the quantity on an existing cart line.
type UpdateItemInput struct {
	ActorUserID uuid.UUID
	ItemID      uuid.UUID
	QuantityKg  float64 `validate:"required,gt=0"`
}

// CheckoutInput turns every cart line into a buyer order with a shared
// delivery destination and window.
type CheckoutInput struct {
	ActorUserID         uuid.UUID
	DeliveryLocation    string    `validate:"required"`
	DeliveryWindowStart time.Time `validate:"required"`
	DeliveryWindowEnd   time.Time `validate:"required"`
	Notes               string
}
