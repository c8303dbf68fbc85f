package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// Lot is an indivisible batch of harvested produce. Allocation reserves whole
// lots; a lot never backs more than one contract.
type Lot struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CooperativeID       uuid.UUID       `gorm:"column:cooperative_id;type:uuid;not null;index"`
	FarmerID            *uuid.UUID      `gorm:"column:farmer_id;type:uuid"`
	Crop                string          `gorm:"column:crop;not null"`
	QuantityKg          float64         `gorm:"column:quantity_kg;not null"`
	QualityGrade        string          `gorm:"column:quality_grade"`
	Status              enums.LotStatus `gorm:"column:status;type:text;not null;default:'listed'"`
	HarvestedAt         *time.Time      `gorm:"column:harvested_at"`
	ExpectedHarvestDate time.Time       `gorm:"column:expected_harvest_date;not null"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
