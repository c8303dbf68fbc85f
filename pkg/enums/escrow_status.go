package enums

import "fmt"

// EscrowStatus is the lifecycle of the escrow ledger row backing a contract.
// held: funds captured; completed: capture confirmed; released: paid out on
// delivery confirmation.
type EscrowStatus string

const (
	EscrowStatusHeld      EscrowStatus = "held"
	EscrowStatusCompleted EscrowStatus = "completed"
	EscrowStatusReleased  EscrowStatus = "released"
)

var validEscrowStatuses = []EscrowStatus{
	EscrowStatusHeld,
	EscrowStatusCompleted,
	EscrowStatusReleased,
}

// String implements fmt.Stringer.
func (e EscrowStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EscrowStatus.
func (e EscrowStatus) IsValid() bool {
	for _, candidate := range validEscrowStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEscrowStatus converts raw input into an EscrowStatus.
func ParseEscrowStatus(value string) (EscrowStatus, error) {
	for _, candidate := range validEscrowStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid escrow status %q", value)
}

// PaymentType distinguishes ledger rows. Escrow is the only type today.
type PaymentType string

const (
	PaymentTypeEscrow PaymentType = "escrow"
)

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	return p == PaymentTypeEscrow
}
