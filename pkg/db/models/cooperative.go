package models

import (
	"time"

	"github.com/google/uuid"
)

// Cooperative represents a farmer cooperative selling aggregated produce.
type Cooperative struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	Region        string    `gorm:"column:region;not null"`
	District      string    `gorm:"column:district;not null"`
	Location      string    `gorm:"column:location;not null"`
	Phone         string    `gorm:"column:phone"`
	Email         string    `gorm:"column:email"`
	ManagerUserID uuid.UUID `gorm:"column:manager_user_id;type:uuid;not null"`
	Verified      bool      `gorm:"column:verified;not null;default:false"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
