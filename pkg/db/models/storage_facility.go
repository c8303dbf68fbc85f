package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// StorageFacility is a warehouse whose available_kg is decremented by
// bookings. AvailableKg never goes negative; the repository guards the
// decrement with a conditional update.
type StorageFacility struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Location    string         `gorm:"column:location;not null"`
	CapacityKg  float64        `gorm:"column:capacity_kg;not null"`
	AvailableKg float64        `gorm:"column:available_kg;not null"`
	Features    pq.StringArray `gorm:"column:features;type:text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
