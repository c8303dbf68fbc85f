package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column on outbox_events.
type OutboxAggregateType string

const (
	AggregateOrder     OutboxAggregateType = "buyer_order"
	AggregateContract  OutboxAggregateType = "contract"
	AggregateTransport OutboxAggregateType = "transport_request"
	AggregateEscrow    OutboxAggregateType = "payment_ledger"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateContract,
	AggregateTransport,
	AggregateEscrow,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column on outbox_events.
type OutboxEventType string

const (
	EventOrderPlaced        OutboxEventType = "order.placed"
	EventOrderRejected      OutboxEventType = "order.rejected"
	EventContractCreated    OutboxEventType = "contract.created"
	EventTransportDelivered OutboxEventType = "transport.delivered"
	EventEscrowReleased     OutboxEventType = "escrow.released"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderPlaced,
	EventOrderRejected,
	EventContractCreated,
	EventTransportDelivered,
	EventEscrowReleased,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
