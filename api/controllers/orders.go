package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internalorders "github.com/gasana-dev/isoko-backend/internal/orders"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

type placeOrderRequest struct {
	MarketListingID     *string   `json:"market_listing_id,omitempty"`
	Crop                string    `json:"crop"`
	QuantityKg          float64   `json:"quantity_kg" validate:"required,gt=0"`
	PriceOffer          float64   `json:"price_offer" validate:"required,gt=0"`
	DeliveryLocation    string    `json:"delivery_location" validate:"required"`
	DeliveryWindowStart time.Time `json:"delivery_window_start" validate:"required"`
	DeliveryWindowEnd   time.Time `json:"delivery_window_end" validate:"required"`
	Notes               string    `json:"notes"`
}

// PlaceOrder creates a buyer order, optionally against a market listing.
func PlaceOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.PlaceOrderInput{
			ActorUserID:         actorID,
			Crop:                payload.Crop,
			QuantityKg:          payload.QuantityKg,
			PriceOffer:          payload.PriceOffer,
			DeliveryLocation:    payload.DeliveryLocation,
			DeliveryWindowStart: payload.DeliveryWindowStart,
			DeliveryWindowEnd:   payload.DeliveryWindowEnd,
			Notes:               payload.Notes,
		}
		if payload.MarketListingID != nil {
			listingID, err := uuid.Parse(strings.TrimSpace(*payload.MarketListingID))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid market listing id"))
				return
			}
			input.MarketListingID = &listingID
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

type respondOrderRequest struct {
	Decision string `json:"decision" validate:"required"`
}

// RespondToOrder records a cooperative manager's accept or reject decision.
func RespondToOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload respondOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var decision internalorders.OrderDecision
		switch strings.ToLower(strings.TrimSpace(payload.Decision)) {
		case "accept":
			decision = internalorders.OrderDecisionAccept
		case "reject":
			decision = internalorders.OrderDecisionReject
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "decision must be accept or reject"))
			return
		}

		result, err := svc.RespondToOrder(r.Context(), internalorders.RespondInput{
			ActorUserID: actorID,
			OrderID:     orderID,
			Decision:    decision,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BuyerOrders lists the authenticated buyer's orders.
func BuyerOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.BuyerOrders(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}

// CooperativeOrders lists orders addressed to the manager's cooperative.
func CooperativeOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.CooperativeOrders(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, orders)
	}
}
