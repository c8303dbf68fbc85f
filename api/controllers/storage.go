package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internalstorage "github.com/gasana-dev/isoko-backend/internal/storage"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

// StorageFacilities lists facilities with their remaining capacity.
func StorageFacilities(svc internalstorage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facilities, err := svc.Facilities(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, facilities)
	}
}

type bookStorageRequest struct {
	FacilityID string    `json:"facility_id" validate:"required"`
	ContractID string    `json:"contract_id" validate:"required"`
	LotID      *string   `json:"lot_id,omitempty"`
	QuantityKg float64   `json:"quantity_kg" validate:"required,gt=0"`
	StartDate  time.Time `json:"start_date" validate:"required"`
	EndDate    time.Time `json:"end_date" validate:"required"`
}

// BookStorage reserves facility capacity against a contract.
func BookStorage(svc internalstorage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload bookStorageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		facilityID, err := uuid.Parse(strings.TrimSpace(payload.FacilityID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid facility id"))
			return
		}
		contractID, err := uuid.Parse(strings.TrimSpace(payload.ContractID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contract id"))
			return
		}

		input := internalstorage.BookInput{
			ActorUserID: actorID,
			FacilityID:  facilityID,
			ContractID:  contractID,
			QuantityKg:  payload.QuantityKg,
			StartDate:   payload.StartDate,
			EndDate:     payload.EndDate,
		}
		if payload.LotID != nil {
			lotID, err := uuid.Parse(strings.TrimSpace(*payload.LotID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lot id"))
				return
			}
			input.LotID = &lotID
		}

		booking, err := svc.Book(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// ReleaseStorageBooking frees a reservation and restores facility capacity.
func ReleaseStorageBooking(svc internalstorage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookingID, err := validators.ParseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Release(r.Context(), actorID, bookingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// CooperativeStorageBookings lists bookings tied to the manager's contracts.
func CooperativeStorageBookings(svc internalstorage.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		bookings, err := svc.CooperativeBookings(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, bookings)
	}
}
