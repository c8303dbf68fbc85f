package tracking

import (
	"context"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
)

// Repository defines the read-only lookups behind the public tracking view.
type Repository interface {
	FindContractByTrackingID(ctx context.Context, trackingID string) (*models.Contract, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error)
	ListTransportByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error)
	ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error)
}
