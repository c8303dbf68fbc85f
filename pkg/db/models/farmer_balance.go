package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// FarmerBalance is one farmer's settlement share from a completed contract.
type FarmerBalance struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FarmerID             uuid.UUID           `gorm:"column:farmer_id;type:uuid;not null;index;uniqueIndex:idx_farmer_balances_contract_id_farmer"`
	ContractID           uuid.UUID           `gorm:"column:contract_id;type:uuid;not null;uniqueIndex:idx_farmer_balances_contract_id_farmer"`
	Amount               float64             `gorm:"column:amount;not null"`
	Status               enums.BalanceStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'momo'"`
	TransactionReference string              `gorm:"column:transaction_reference;not null;uniqueIndex"`
	PaidAt               *time.Time          `gorm:"column:paid_at"`
	FailureReason        *string             `gorm:"column:failure_reason"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
