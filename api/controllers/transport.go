package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gasana-dev/isoko-backend/api/responses"
	"github.com/gasana-dev/isoko-backend/api/validators"
	internaltransport "github.com/gasana-dev/isoko-backend/internal/transport"
	pkgerrors "github.com/gasana-dev/isoko-backend/pkg/errors"
	"github.com/gasana-dev/isoko-backend/pkg/logger"
)

type assignTransportRequest struct {
	TransporterID string  `json:"transporter_id" validate:"required"`
	DriverPhone   *string `json:"driver_phone,omitempty"`
	AssignedTruck *string `json:"assigned_truck,omitempty"`
}

// AssignTransport lets a cooperative manager hand a pending job to a
// transporter directly.
func AssignTransport(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transportID, err := validators.ParseUUIDParam(r, "transportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignTransportRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		transporterID, err := uuid.Parse(strings.TrimSpace(payload.TransporterID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transporter id"))
			return
		}

		job, err := svc.Assign(r.Context(), internaltransport.AssignInput{
			ActorUserID:   actorID,
			TransportID:   transportID,
			TransporterID: transporterID,
			DriverPhone:   payload.DriverPhone,
			AssignedTruck: payload.AssignedTruck,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// AcceptTransport lets a transporter claim an open job.
func AcceptTransport(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transportID, err := validators.ParseUUIDParam(r, "transportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Accept(r.Context(), actorID, transportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// PickupTransport marks the load as collected.
func PickupTransport(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transportID, err := validators.ParseUUIDParam(r, "transportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Pickup(r.Context(), actorID, transportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

type deliverTransportRequest struct {
	ProofOfDeliveryURL *string `json:"proof_of_delivery_url,omitempty"`
}

// DeliverTransport marks the load as delivered at its destination.
func DeliverTransport(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transportID, err := validators.ParseUUIDParam(r, "transportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload deliverTransportRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		job, err := svc.Deliver(r.Context(), internaltransport.DeliverInput{
			ActorUserID:        actorID,
			TransportID:        transportID,
			ProofOfDeliveryURL: payload.ProofOfDeliveryURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// CancelTransport withdraws a job that has not reached a terminal state.
func CancelTransport(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transportID, err := validators.ParseUUIDParam(r, "transportId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		job, err := svc.Cancel(r.Context(), actorID, transportID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, job)
	}
}

// AvailableTransportJobs lists unassigned pending jobs for transporters.
func AvailableTransportJobs(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jobs, err := svc.AvailableJobs(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, jobs)
	}
}

// MyTransportJobs lists the transporter's own jobs.
func MyTransportJobs(svc internaltransport.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		jobs, err := svc.MyJobs(r.Context(), actorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, jobs)
	}
}
