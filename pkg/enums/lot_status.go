package enums

import "fmt"

// LotStatus tracks a produce lot through allocation. A lot backs at most one
// contract: allocation flips listed→reserved, never splits.
type LotStatus string

const (
	LotStatusListed   LotStatus = "listed"
	LotStatusReserved LotStatus = "reserved"
	LotStatusConsumed LotStatus = "consumed"
)

var validLotStatuses = []LotStatus{
	LotStatusListed,
	LotStatusReserved,
	LotStatusConsumed,
}

// String implements fmt.Stringer.
func (l LotStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LotStatus.
func (l LotStatus) IsValid() bool {
	for _, candidate := range validLotStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLotStatus converts raw input into a LotStatus.
func ParseLotStatus(value string) (LotStatus, error) {
	for _, candidate := range validLotStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lot status %q", value)
}
