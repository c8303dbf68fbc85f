package models

import (
	"time"

	"github.com/google/uuid"
)

// BuyerProfile is the purchasing identity behind buyer orders.
type BuyerProfile struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Organization string    `gorm:"column:organization"`
	Location     string    `gorm:"column:location"`
	Phone        string    `gorm:"column:phone"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
