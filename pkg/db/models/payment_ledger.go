package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// PaymentLedger is the escrow row backing a contract. Append-only; only the
// status column transitions.
type PaymentLedger struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ContractID uuid.UUID          `gorm:"column:contract_id;type:uuid;not null;uniqueIndex:idx_payment_ledgers_contract_id"`
	Amount     float64            `gorm:"column:amount;not null"`
	Type       enums.PaymentType  `gorm:"column:type;type:text;not null;default:'escrow'"`
	Status     enums.EscrowStatus `gorm:"column:status;type:text;not null;default:'held'"`
	Reference  string             `gorm:"column:reference;not null;uniqueIndex"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
