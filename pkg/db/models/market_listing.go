package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// MarketListing advertises cooperative inventory to buyers.
type MarketListing struct {
	ID                      uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CooperativeID           uuid.UUID           `gorm:"column:cooperative_id;type:uuid;not null;index"`
	Crop                    string              `gorm:"column:crop;not null"`
	QuantityKg              float64             `gorm:"column:quantity_kg;not null"`
	MinimumPrice            float64             `gorm:"column:minimum_price;not null"`
	AvailabilityWindowStart time.Time           `gorm:"column:availability_window_start"`
	AvailabilityWindowEnd   time.Time           `gorm:"column:availability_window_end"`
	QualityGrade            string              `gorm:"column:quality_grade"`
	Description             string              `gorm:"column:description"`
	Status                  enums.ListingStatus `gorm:"column:status;type:text;not null;default:'active'"`
	CreatedAt               time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
