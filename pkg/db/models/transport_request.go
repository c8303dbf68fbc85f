package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// TransportRequest is the haulage job synthesized when a contract is created.
type TransportRequest struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractID         uuid.UUID             `gorm:"column:contract_id;type:uuid;not null;index"`
	TransporterID      *uuid.UUID            `gorm:"column:transporter_id;type:uuid;index"`
	Origin             string                `gorm:"column:origin;not null"`
	Destination        string                `gorm:"column:destination;not null"`
	LoadKg             float64               `gorm:"column:load_kg;not null"`
	PickupStart        time.Time             `gorm:"column:pickup_start;not null"`
	PickupEnd          time.Time             `gorm:"column:pickup_end;not null"`
	Price              float64               `gorm:"column:price;not null"`
	Status             enums.TransportStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	AssignedAt         *time.Time            `gorm:"column:assigned_at"`
	PickedUpAt         *time.Time            `gorm:"column:picked_up_at"`
	DeliveredAt        *time.Time            `gorm:"column:delivered_at"`
	DriverPhone        *string               `gorm:"column:driver_phone"`
	AssignedTruck      *string               `gorm:"column:assigned_truck"`
	ProofOfDeliveryURL *string               `gorm:"column:proof_of_delivery_url"`
	Notes              string                `gorm:"column:notes"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
