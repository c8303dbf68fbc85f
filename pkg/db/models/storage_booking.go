package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// StorageBooking reserves warehouse capacity for a contract's produce.
type StorageBooking struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StorageFacilityID uuid.UUID           `gorm:"column:storage_facility_id;type:uuid;not null;index"`
	ContractID        uuid.UUID           `gorm:"column:contract_id;type:uuid;not null;index"`
	LotID             *uuid.UUID          `gorm:"column:lot_id;type:uuid"`
	QuantityKg        float64             `gorm:"column:quantity_kg;not null"`
	StartDate         time.Time           `gorm:"column:start_date;not null"`
	EndDate           time.Time           `gorm:"column:end_date;not null"`
	Status            enums.BookingStatus `gorm:"column:status;type:text;not null;default:'reserved'"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
