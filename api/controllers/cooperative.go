package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internalinventory "github.com/gasana-dev/isoko-backend/internal/inventory"
	internallistings "github.com/gasana-dev/isoko-backend/internal/listings"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

type addLotRequest struct {
	FarmerID            *string    `json:"farmer_id,omitempty"`
	Crop                string     `json:"crop" validate:"required"`
	QuantityKg          float64    `json:"quantity_kg" validate:"required,gt=0"`
	QualityGrade        string     `json:"quality_grade"`
	HarvestedAt         *time.Time `json:"harvested_at,omitempty"`
	ExpectedHarvestDate time.Time  `json:"expected_harvest_date" validate:"required"`
}

// AddLot registers a produce lot under the manager's cooperative.
func AddLot(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addLotRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalinventory.AddLotInput{
			ActorUserID:         actorID,
			Crop:                payload.Crop,
			QuantityKg:          payload.QuantityKg,
			QualityGrade:        payload.QualityGrade,
			HarvestedAt:         payload.HarvestedAt,
			ExpectedHarvestDate: payload.ExpectedHarvestDate,
		}
		if payload.FarmerID != nil {
			farmerID, err := uuid.Parse(strings.TrimSpace(*payload.FarmerID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid farmer id"))
				return
			}
			input.FarmerID = &farmerID
		}

		lot, err := svc.AddLot(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lot)
	}
}

// CooperativeInventory lists the lots held by the manager's cooperative.
func CooperativeInventory(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lots, err := svc.CooperativeInventory(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lots)
	}
}

type createListingRequest struct {
	Crop                    string    `json:"crop" validate:"required"`
	QuantityKg              float64   `json:"quantity_kg" validate:"required,gt=0"`
	MinimumPrice            float64   `json:"minimum_price" validate:"required,gt=0"`
	AvailabilityWindowStart time.Time `json:"availability_window_start"`
	AvailabilityWindowEnd   time.Time `json:"availability_window_end"`
	QualityGrade            string    `json:"quality_grade"`
	Description             string    `json:"description"`
}

// CreateListing publishes a market listing backed by the cooperative's lots.
func CreateListing(svc internallistings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createListingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CreateListing(r.Context(), internallistings.CreateListingInput{
			ActorUserID:             actorID,
			Crop:                    payload.Crop,
			QuantityKg:              payload.QuantityKg,
			MinimumPrice:            payload.MinimumPrice,
			AvailabilityWindowStart: payload.AvailabilityWindowStart,
			AvailabilityWindowEnd:   payload.AvailabilityWindowEnd,
			QualityGrade:            payload.QualityGrade,
			Description:             payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// CloseListing withdraws a market listing.
func CloseListing(svc internallistings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listingID, err := validators.ParseUUIDParam(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CloseListing(r.Context(), actorID, listingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// CooperativeListings lists the manager's own listings, open and closed.
func CooperativeListings(svc internallistings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listings, err := svc.CooperativeListings(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

// PublicListings lists active market listings, optionally filtered by crop.
func PublicListings(svc internallistings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crop := strings.TrimSpace(r.URL.Query().Get("crop"))

		listings, err := svc.PublicListings(r.Context(), crop)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}
