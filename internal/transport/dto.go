package transport

import (
	"github.com/google/uuid"
)

// AssignInput captures a cooperative manager's direct assignment of a job.
type AssignInput struct {
	ActorUserID   uuid.UUID
	TransportID   uuid.UUID
	TransporterID uuid.UUID `validate:"required"`
	DriverPhone   *string
	AssignedTruck *string
}

// DeliverInput captures the transporter's delivery confirmation.
type DeliverInput struct {
	ActorUserID        uuid.UUID
	TransportID        uuid.UUID
	ProofOfDeliveryURL *string
}

// TransportDeliveredEvent is emitted when a load reaches its destination.
type TransportDeliveredEvent struct {
	TransportID   uuid.UUID `json:"transport_request_id"`
	ContractID    uuid.UUID `json:"contract_id"`
	TransporterID uuid.UUID `json:"transporter_id"`
}
