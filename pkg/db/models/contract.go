package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Contract binds an accepted order to the lots that fulfill it. TrackingID is
// the public handle exposed on the tracking endpoint.
type Contract struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerOrderID uuid.UUID            `gorm:"column:buyer_order_id;type:uuid;not null;uniqueIndex"`
	AgreedPrice  float64              `gorm:"column:agreed_price;not null"`
	TrackingID   string               `gorm:"column:tracking_id;not null;uniqueIndex"`
	Status       enums.ContractStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ContractLot links a contract to one reserved lot. Whole lots only; there is
// no partial-quantity column.
type ContractLot struct {
	ContractID uuid.UUID `gorm:"column:contract_id;type:uuid;primaryKey"`
	LotID      uuid.UUID `gorm:"column:lot_id;type:uuid;primaryKey"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
