package tracking

import (
	"time"

	"github.com/gasana-dev/isoko-backend/pkg/enums"
)

// TransportLeg is the public slice of a transport request. Prices, phone
// numbers, and transporter identities stay internal.
type TransportLeg struct {
	Status      enums.TransportStatus `json:"status"`
	Origin      string                `json:"origin"`
	Destination string                `json:"destination"`
	PickupStart time.Time             `json:"pickup_start"`
	PickupEnd   time.Time             `json:"pickup_end"`
	PickedUpAt  *time.Time            `json:"picked_up_at,omitempty"`
	DeliveredAt *time.Time            `json:"delivered_at,omitempty"`
}

// StorageLeg is the public slice of a storage booking.
type StorageLeg struct {
	Status     enums.BookingStatus `json:"status"`
	QuantityKg float64             `json:"quantity_kg"`
	StartDate  time.Time           `json:"start_date"`
	EndDate    time.Time           `json:"end_date"`
}

// View is everything a tracking code resolves to. It carries no buyer
// identity and no money fields.
type View struct {
	TrackingID          string               `json:"tracking_id"`
	Status              enums.ContractStatus `json:"status"`
	Crop                string               `json:"crop"`
	QuantityKg          float64              `json:"quantity_kg"`
	DeliveryLocation    string               `json:"delivery_location"`
	DeliveryWindowStart time.Time            `json:"delivery_window_start"`
	DeliveryWindowEnd   time.Time            `json:"delivery_window_end"`
	TransportLegs       []TransportLeg       `json:"transport_legs"`
	StorageLegs         []StorageLeg         `json:"storage_legs"`
}
