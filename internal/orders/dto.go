package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// PlaceOrderInput captures a buyer's request for produce.
type PlaceOrderInput struct {
	ActorUserID         uuid.UUID
	MarketListingID     *uuid.UUID
	Crop                string
	QuantityKg          float64   `validate:"required,gt=0"`
	PriceOffer          float64   `validate:"required,gt=0"`
	DeliveryLocation    string    `validate:"required"`
	DeliveryWindowStart time.Time `validate:"required"`
	DeliveryWindowEnd   time.Time `validate:"required"`
	Notes               string
}

// OrderDecision is the action a cooperative manager takes on an open order.
type OrderDecision string

const (
	OrderDecisionAccept OrderDecision = "accept"
	OrderDecisionReject OrderDecision = "reject"
)

// RespondInput captures a cooperative manager's decision on an order.
type RespondInput struct {
	ActorUserID uuid.UUID
	OrderID     uuid.UUID
	Decision    OrderDecision
}

// ContractView is the accept response shape: the contract plus the lots that
// back it and the transport leg synthesized for it.
type ContractView struct {
	ContractID  uuid.UUID            `json:"contract_id"`
	TrackingID  string               `json:"tracking_id"`
	AgreedPrice float64              `json:"agreed_price"`
	Status      enums.ContractStatus `json:"status"`
	LotIDs      []uuid.UUID          `json:"lot_ids"`
	AllocatedKg float64              `json:"allocated_kg"`
	ShortfallKg float64              `json:"shortfall_kg"`
	TransportID uuid.UUID            `json:"transport_request_id"`
}

// RespondResult reports what a decision produced. Contract is nil on reject.
type RespondResult struct {
	Order    *models.BuyerOrder `json:"order"`
	Contract *ContractView      `json:"contract,omitempty"`
}

// OrderPlacedEvent is emitted when a buyer order is created.
type OrderPlacedEvent struct {
	OrderID         uuid.UUID  `json:"order_id"`
	BuyerProfileID  uuid.UUID  `json:"buyer_profile_id"`
	MarketListingID *uuid.UUID `json:"market_listing_id,omitempty"`
	Crop            string     `json:"crop"`
	QuantityKg      float64    `json:"quantity_kg"`
	PriceOffer      float64    `json:"price_offer"`
}

// OrderRejectedEvent is emitted when a cooperative declines an order.
type OrderRejectedEvent struct {
	OrderID       uuid.UUID `json:"order_id"`
	CooperativeID uuid.UUID `json:"cooperative_id"`
}

// ContractCreatedEvent is emitted when an accepted order becomes a contract.
type ContractCreatedEvent struct {
	ContractID    uuid.UUID   `json:"contract_id"`
	OrderID       uuid.UUID   `json:"order_id"`
	CooperativeID uuid.UUID   `json:"cooperative_id"`
	TrackingID    string      `json:"tracking_id"`
	AgreedPrice   float64     `json:"agreed_price"`
	LotIDs        []uuid.UUID `json:"lot_ids"`
	AllocatedKg   float64     `json:"allocated_kg"`
}
