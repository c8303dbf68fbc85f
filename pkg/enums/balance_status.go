package enums

import "fmt"

// BalanceStatus is the payout state of one farmer's settlement share.
type BalanceStatus string

const (
	BalanceStatusPending BalanceStatus = "pending"
	BalanceStatusPaid    BalanceStatus = "paid"
	BalanceStatusFailed  BalanceStatus = "failed"
)

var validBalanceStatuses = []BalanceStatus{
	BalanceStatusPending,
	BalanceStatusPaid,
	BalanceStatusFailed,
}

// String implements fmt.Stringer.
func (b BalanceStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BalanceStatus.
func (b BalanceStatus) IsValid() bool {
	for _, candidate := range validBalanceStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBalanceStatus converts raw input into a BalanceStatus.
func ParseBalanceStatus(value string) (BalanceStatus, error) {
	for _, candidate := range validBalanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid balance status %q", value)
}
