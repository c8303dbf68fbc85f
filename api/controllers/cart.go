package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internalcart "github.com/gasana-dev/isoko-backend/internal/cart"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

type addCartItemRequest struct {
	MarketListingID string  `json:"market_listing_id" validate:"required"`
	QuantityKg      float64 `json:"quantity_kg" validate:"required,gt=0"`
}

// AddCartItem puts a listing into the buyer's cart.
func AddCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listingID, err := uuid.Parse(payload.MarketListingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid market listing id"))
			return
		}

		item, err := svc.AddItem(r.Context(), internalcart.AddItemInput{
			ActorUserID:     actorID,
			MarketListingID: listingID,
			QuantityKg:      payload.QuantityKg,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

type updateCartItemRequest struct {
	QuantityKg float64 `json:"quantity_kg" validate:"required,gt=0"`
}

// UpdateCartItem changes the quantity on a cart line.
func UpdateCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), internalcart.UpdateItemInput{
			ActorUserID: actorID,
			ItemID:      itemID,
			QuantityKg:  payload.QuantityKg,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// RemoveCartItem deletes a cart line.
func RemoveCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveItem(r.Context(), actorID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, nil)
	}
}

// CartItems lists the buyer's cart.
func CartItems(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Items(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type checkoutRequest struct {
	DeliveryLocation    string    `json:"delivery_location" validate:"required"`
	DeliveryWindowStart time.Time `json:"delivery_window_start" validate:"required"`
	DeliveryWindowEnd   time.Time `json:"delivery_window_end" validate:"required"`
	Notes               string    `json:"notes"`
}

// Checkout converts the cart into buyer orders.
func Checkout(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.Checkout(r.Context(), internalcart.CheckoutInput{
			ActorUserID:         actorID,
			DeliveryLocation:    payload.DeliveryLocation,
			DeliveryWindowStart: payload.DeliveryWindowStart,
			DeliveryWindowEnd:   payload.DeliveryWindowEnd,
			Notes:               payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, orders)
	}
}
