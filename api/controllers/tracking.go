package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gasana-dev/isoko-backend/api/responses"
	internaltracking "github.com/gasana-dev/isoko-backend/internal/tracking"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

// Track resolves a public tracking code into the shipment view.
func Track(svc internaltracking.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingID := strings.TrimSpace(chi.URLParam(r, "trackingId"))

		view, err := svc.Track(r.Context(), trackingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
