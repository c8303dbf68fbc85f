package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TransporterProfile is a registered hauler eligible for transport jobs.
type TransporterProfile struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName      string         `gorm:"column:company_name;not null"`
	LicenseNumber    string         `gorm:"column:license_number"`
	Phone            string         `gorm:"column:phone"`
	CapacityKg       float64        `gorm:"column:capacity_kg;not null"`
	VehicleType      string         `gorm:"column:vehicle_type"`
	LicensePlate     string         `gorm:"column:license_plate"`
	OperatingRegions pq.StringArray `gorm:"column:operating_regions;type:text[]"`
	Verified         bool           `gorm:"column:verified;not null;default:false"`
	Active           bool           `gorm:"column:active;not null;default:true"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
