package payments

import (
	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

// EscrowReferencePrefix prefixes buyer escrow capture references.
const EscrowReferencePrefix = "ESC"

// SettlementReferencePrefix prefixes farmer payout references.
const SettlementReferencePrefix = "STL"

// InitiatePaymentInput captures a buyer's escrow funding request.
type InitiatePaymentInput struct {
	ActorUserID uuid.UUID
	OrderID     uuid.UUID
}

// SettleInput captures an admin's request to settle one contract's farmers.
type SettleInput struct {
	ActorUserID uuid.UUID
	ContractID  uuid.UUID `validate:"required"`
}

// SettlementReport summarizes one settlement run.
type SettlementReport struct {
	ContractID uuid.UUID              `json:"contract_id"`
	EscrowKg   float64                `json:"total_quantity_kg"`
	Balances   []models.FarmerBalance `json:"balances"`
	PaidCount  int                    `json:"paid_count"`
	FailCount  int                    `json:"failed_count"`
}

// EscrowReleasedEvent is emitted when delivery confirmation releases escrow.
type EscrowReleasedEvent struct {
	LedgerID   uuid.UUID `json:"ledger_id"`
	ContractID uuid.UUID `json:"contract_id"`
	OrderID    uuid.UUID `json:"order_id"`
	Amount     float64   `json:"amount"`
}
