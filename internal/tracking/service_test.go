package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

type stubTrackingRepo struct {
	contracts map[string]*models.Contract
	orders    map[uuid.UUID]*models.BuyerOrder
	transport map[uuid.UUID][]models.TransportRequest
	bookings  map[uuid.UUID][]models.StorageBooking
}

func newStubTrackingRepo() *stubTrackingRepo {
	return &stubTrackingRepo{
		contracts: map[string]*models.Contract{},
		orders:    map[uuid.UUID]*models.BuyerOrder{},
		transport: map[uuid.UUID][]models.TransportRequest{},
		bookings:  map[uuid.UUID][]models.StorageBooking{},
	}
}

func (s *stubTrackingRepo) FindContractByTrackingID(ctx context.Context, trackingID string) (*models.Contract, error) {
	contract, ok := s.contracts[trackingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return contract, nil
}

func (s *stubTrackingRepo) FindOrder(ctx context.Context, id uuid.UUID) (*models.BuyerOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubTrackingRepo) ListTransportByContract(ctx context.Context, contractID uuid.UUID) ([]models.TransportRequest, error) {
	return s.transport[contractID], nil
}

func (s *stubTrackingRepo) ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error) {
	return s.bookings[contractID], nil
}

func TestTrackAggregatesShipment(t *testing.T) {
	repo := newStubTrackingRepo()

	order := &models.BuyerOrder{
		ID:                  uuid.New(),
		BuyerProfileID:      uuid.New(),
		Crop:                "maize",
		QuantityKg:          200,
		PriceOffer:          340,
		DeliveryLocation:    "Kigali, Nyabugogo depot",
		DeliveryWindowStart: time.Now().Add(48 * time.Hour),
		DeliveryWindowEnd:   time.Now().Add(54 * time.Hour),
		Status:              enums.OrderStatusAccepted,
	}
	contract := &models.Contract{
		ID:           uuid.New(),
		BuyerOrderID: order.ID,
		AgreedPrice:  340,
		TrackingID:   "ISOKO-000042",
		Status:       enums.ContractStatusActive,
	}
	repo.orders[order.ID] = order
	repo.contracts[contract.TrackingID] = contract

	pickedUp := time.Now()
	repo.transport[contract.ID] = []models.TransportRequest{{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		Origin:      "Musanze collection point",
		Destination: order.DeliveryLocation,
		LoadKg:      200,
		Price:       20000,
		Status:      enums.TransportStatusPickedUp,
		PickedUpAt:  &pickedUp,
	}}
	repo.bookings[contract.ID] = []models.StorageBooking{{
		ID:         uuid.New(),
		ContractID: contract.ID,
		QuantityKg: 200,
		StartDate:  time.Now(),
		EndDate:    time.Now().Add(72 * time.Hour),
		Status:     enums.BookingStatusReserved,
	}}

	svc, err := NewService(repo)
	require.NoError(t, err)

	view, err := svc.Track(context.Background(), "ISOKO-000042")
	require.NoError(t, err)

	assert.Equal(t, "ISOKO-000042", view.TrackingID)
	assert.Equal(t, enums.ContractStatusActive, view.Status)
	assert.Equal(t, "maize", view.Crop)
	assert.InDelta(t, 200, view.QuantityKg, 0.001)
	require.Len(t, view.TransportLegs, 1)
	assert.Equal(t, enums.TransportStatusPickedUp, view.TransportLegs[0].Status)
	require.NotNil(t, view.TransportLegs[0].PickedUpAt)
	require.Len(t, view.StorageLegs, 1)
	assert.Equal(t, enums.BookingStatusReserved, view.StorageLegs[0].Status)
}

func TestTrackTrimsWhitespace(t *testing.T) {
	repo := newStubTrackingRepo()
	order := &models.BuyerOrder{ID: uuid.New(), Crop: "beans", QuantityKg: 90}
	contract := &models.Contract{
		ID:           uuid.New(),
		BuyerOrderID: order.ID,
		TrackingID:   "ISOKO-000007",
		Status:       enums.ContractStatusDelivered,
	}
	repo.orders[order.ID] = order
	repo.contracts[contract.TrackingID] = contract

	svc, err := NewService(repo)
	require.NoError(t, err)

	view, err := svc.Track(context.Background(), "  ISOKO-000007 ")
	require.NoError(t, err)
	assert.Equal(t, enums.ContractStatusDelivered, view.Status)
	assert.NotNil(t, view.TransportLegs)
	assert.Empty(t, view.TransportLegs)
}

func TestTrackUnknownCode(t *testing.T) {
	svc, err := NewService(newStubTrackingRepo())
	require.NoError(t, err)

	_, err = svc.Track(context.Background(), "ISOKO-999999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestTrackRejectsEmptyCode(t *testing.T) {
	svc, err := NewService(newStubTrackingRepo())
	require.NoError(t, err)

	_, err = svc.Track(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
