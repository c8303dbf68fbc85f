package models

import (
	"time"

	"github.com/google/uuid"
)

// Farmer is a cooperative member whose lots earn settlement shares.
type Farmer struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	CooperativeID uuid.UUID `gorm:"column:cooperative_id;type:uuid;not null"`
	FullName      string    `gorm:"column:full_name;not null"`
	Phone         string    `gorm:"column:phone"`
	NationalID    string    `gorm:"column:national_id"`
	District      string    `gorm:"column:district"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
