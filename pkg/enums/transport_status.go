package enums

import "fmt"

// TransportStatus is the lifecycle of a transport request.
type TransportStatus string

const (
	TransportStatusPending   TransportStatus = "pending"
	TransportStatusAssigned  TransportStatus = "assigned"
	TransportStatusPickedUp  TransportStatus = "picked_up"
	TransportStatusDelivered TransportStatus = "delivered"
	TransportStatusCompleted TransportStatus = "completed"
	TransportStatusCancelled TransportStatus = "cancelled"
)

var validTransportStatuses = []TransportStatus{
	TransportStatusPending,
	TransportStatusAssigned,
	TransportStatusPickedUp,
	TransportStatusDelivered,
	TransportStatusCompleted,
	TransportStatusCancelled,
}

// String implements fmt.Stringer.
func (t TransportStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransportStatus.
func (t TransportStatus) IsValid() bool {
	for _, candidate := range validTransportStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the job can no longer change hands.
func (t TransportStatus) IsTerminal() bool {
	return t == TransportStatusCompleted || t == TransportStatusCancelled
}

// ParseTransportStatus converts raw input into a TransportStatus.
func ParseTransportStatus(value string) (TransportStatus, error) {
	for _, candidate := range validTransportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transport status %q", value)
}
