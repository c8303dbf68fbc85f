package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gasana-dev/isoko-backend/pkg/db/models"
	"github.com/gasana-dev/isoko-backend/pkg/enums"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes warehouse booking operations.
type Service interface {
	Facilities(ctx context.Context) ([]models.StorageFacility, error)
	Book(ctx context.Context, input BookInput) (*models.StorageBooking, error)
	Release(ctx context.Context, actorUserID, bookingID uuid.UUID) (*models.StorageBooking, error)
	CooperativeBookings(ctx context.Context, actorUserID uuid.UUID) ([]models.StorageBooking, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a storage service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("storage repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Facilities(ctx context.Context) ([]models.StorageFacility, error) {
	facilities, err := s.repo.ListFacilities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list facilities")
	}
	return facilities, nil
}

// Book reserves warehouse capacity for a contract. The availability decrement
// and the booking row commit together or not at all.
func (s *service) Book(ctx context.Context, input BookInput) (*models.StorageBooking, error) {
	coop, err := s.managedCooperative(ctx, input.ActorUserID)
	if err != nil {
		return nil, err
	}
	if input.QuantityKg <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date must follow start date")
	}

	contract, err := s.repo.FindContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contract not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load contract")
	}

	coopID, err := s.repo.CooperativeIDForContract(ctx, contract.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve contract cooperative")
	}
	if err == nil && coopID != coop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "contract belongs to another cooperative")
	}

	booking := &models.StorageBooking{
		ID:                uuid.New(),
		StorageFacilityID: input.FacilityID,
		ContractID:        contract.ID,
		LotID:             input.LotID,
		QuantityKg:        input.QuantityKg,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		Status:            enums.BookingStatusReserved,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindFacility(ctx, input.FacilityID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "facility not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load facility")
		}

		ok, err := repo.DecrementAvailability(ctx, input.FacilityID, input.QuantityKg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement availability")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientCapacity, "facility cannot absorb the load").
				WithDetails(map[string]any{"requested_kg": input.QuantityKg})
		}

		if _, err := repo.CreateBooking(ctx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// Release returns a booking's quantity to the facility. Idempotent at the
// state level: only a reserved booking releases capacity.
func (s *service) Release(ctx context.Context, actorUserID, bookingID uuid.UUID) (*models.StorageBooking, error) {
	coop, err := s.managedCooperative(ctx, actorUserID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}

	coopID, err := s.repo.CooperativeIDForContract(ctx, booking.ContractID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve contract cooperative")
	}
	if err == nil && coopID != coop.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another cooperative")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		released, err := repo.ReleaseBookingIfReserved(ctx, booking.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "release booking")
		}
		if !released {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "booking already released")
		}
		if err := repo.IncrementAvailability(ctx, booking.StorageFacilityID, booking.QuantityKg); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore availability")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	booking.Status = enums.BookingStatusReleased
	return booking, nil
}

func (s *service) CooperativeBookings(ctx context.Context, actorUserID uuid.UUID) ([]models.StorageBooking, error) {
	coop, err := s.managedCooperative(ctx, actorUserID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.ListBookingsForCooperative(ctx, coop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	return bookings, nil
}

func (s *service) managedCooperative(ctx context.Context, actorUserID uuid.UUID) (*models.Cooperative, error) {
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor required")
	}
	coop, err := s.repo.FindCooperativeByManager(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no cooperative managed by actor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cooperative")
	}
	return coop, nil
}
