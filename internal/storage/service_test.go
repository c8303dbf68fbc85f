package storage

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

type stubStorageRepo struct {
	facility       *models.StorageFacility
	booking        *models.StorageBooking
	contract       *models.Contract
	coop           *models.Cooperative
	contractCoopID uuid.UUID
	decrementOK    bool
	decrements     []float64
	increments     []float64
	released       bool
	releaseResult  bool
	created        []*models.StorageBooking
}

func (s *stubStorageRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubStorageRepo) ListFacilities(ctx context.Context) ([]models.StorageFacility, error) {
	if s.facility != nil {
		return []models.StorageFacility{*s.facility}, nil
	}
	return nil, nil
}

func (s *stubStorageRepo) FindFacility(ctx context.Context, id uuid.UUID) (*models.StorageFacility, error) {
	if s.facility == nil || s.facility.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.facility, nil
}

func (s *stubStorageRepo) DecrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) (bool, error) {
	s.decrements = append(s.decrements, quantityKg)
	return s.decrementOK, nil
}

func (s *stubStorageRepo) IncrementAvailability(ctx context.Context, facilityID uuid.UUID, quantityKg float64) error {
	s.increments = append(s.increments, quantityKg)
	return nil
}

func (s *stubStorageRepo) CreateBooking(ctx context.Context, booking *models.StorageBooking) (*models.StorageBooking, error) {
	s.created = append(s.created, booking)
	return booking, nil
}

func (s *stubStorageRepo) FindBooking(ctx context.Context, id uuid.UUID) (*models.StorageBooking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.booking, nil
}

func (s *stubStorageRepo) ReleaseBookingIfReserved(ctx context.Context, id uuid.UUID) (bool, error) {
	s.released = true
	return s.releaseResult, nil
}

func (s *stubStorageRepo) ListBookingsForCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.StorageBooking, error) {
	if s.booking != nil {
		return []models.StorageBooking{*s.booking}, nil
	}
	return nil, nil
}

func (s *stubStorageRepo) ListBookingsByContract(ctx context.Context, contractID uuid.UUID) ([]models.StorageBooking, error) {
	if s.booking != nil {
		return []models.StorageBooking{*s.booking}, nil
	}
	return nil, nil
}

func (s *stubStorageRepo) FindContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	if s.contract == nil || s.contract.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.contract, nil
}

func (s *stubStorageRepo) CooperativeIDForContract(ctx context.Context, contractID uuid.UUID) (uuid.UUID, error) {
	if s.contractCoopID == uuid.Nil {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return s.contractCoopID, nil
}

func (s *stubStorageRepo) FindCooperativeByManager(ctx context.Context, managerUserID uuid.UUID) (*models.Cooperative, error) {
	if s.coop == nil || s.coop.ManagerUserID != managerUserID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.coop, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func bookingFixture() (*stubStorageRepo, uuid.UUID) {
	manager := uuid.New()
	coop := &models.Cooperative{ID: uuid.New(), ManagerUserID: manager, Active: true}
	return &stubStorageRepo{
		coop:           coop,
		contract:       &models.Contract{ID: uuid.New(), Status: enums.ContractStatusActive},
		facility:       &models.StorageFacility{ID: uuid.New(), Name: "Kigali Cold Store", AvailableKg: 5000},
		contractCoopID: coop.ID,
		decrementOK:    true,
	}, manager
}

func TestBookReservesCapacity(t *testing.T) {
	repo, manager := bookingFixture()

	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)

	start := time.Now().Add(24 * time.Hour)
	booking, err := svc.Book(context.Background(), BookInput{
		ActorUserID: manager,
		FacilityID:  repo.facility.ID,
		ContractID:  repo.contract.ID,
		QuantityKg:  800,
		StartDate:   start,
		EndDate:     start.Add(7 * 24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, enums.BookingStatusReserved, booking.Status)
	require.Len(t, repo.decrements, 1)
	assert.InDelta(t, 800, repo.decrements[0], 0.001)
	require.Len(t, repo.created, 1)
}

func TestBookFailsWhenCapacityExhausted(t *testing.T) {
	repo, manager := bookingFixture()
	repo.decrementOK = false

	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)

	start := time.Now().Add(24 * time.Hour)
	_, err = svc.Book(context.Background(), BookInput{
		ActorUserID: manager,
		FacilityID:  repo.facility.ID,
		ContractID:  repo.contract.ID,
		QuantityKg:  9000,
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientCapacity, pkgerrors.As(err).Code())
	assert.Empty(t, repo.created)
}

func TestBookForbidsForeignContract(t *testing.T) {
	repo, manager := bookingFixture()
	repo.contractCoopID = uuid.New()

	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)

	start := time.Now().Add(24 * time.Hour)
	_, err = svc.Book(context.Background(), BookInput{
		ActorUserID: manager,
		FacilityID:  repo.facility.ID,
		ContractID:  repo.contract.ID,
		QuantityKg:  100,
		StartDate:   start,
		EndDate:     start.Add(48 * time.Hour),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestReleaseRestoresAvailabilityOnce(t *testing.T) {
	repo, manager := bookingFixture()
	repo.booking = &models.StorageBooking{
		ID:                uuid.New(),
		StorageFacilityID: repo.facility.ID,
		ContractID:        repo.contract.ID,
		QuantityKg:        800,
		Status:            enums.BookingStatusReserved,
	}
	repo.releaseResult = true

	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)

	booking, err := svc.Release(context.Background(), manager, repo.booking.ID)
	require.NoError(t, err)

	assert.Equal(t, enums.BookingStatusReleased, booking.Status)
	require.Len(t, repo.increments, 1)
	assert.InDelta(t, 800, repo.increments[0], 0.001)
}

func TestReleaseRejectsAlreadyReleased(t *testing.T) {
	repo, manager := bookingFixture()
	repo.booking = &models.StorageBooking{
		ID:                uuid.New(),
		StorageFacilityID: repo.facility.ID,
		ContractID:        repo.contract.ID,
		QuantityKg:        800,
		Status:            enums.BookingStatusReleased,
	}
	repo.releaseResult = false

	svc, err := NewService(repo, stubTxRunner{})
	require.NoError(t, err)

	_, err = svc.Release(context.Background(), manager, repo.booking.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Empty(t, repo.increments)
}
